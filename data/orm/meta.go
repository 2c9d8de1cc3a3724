package orm

// ModelMeta 模型元信息：表名与主键列
type ModelMeta struct {
	Table      string
	PrimaryKey string
}

// PK 返回主键列名，未设置时为 "id"
func (m *ModelMeta) PK() string {
	if m == nil || m.PrimaryKey == "" {
		return "id"
	}
	return m.PrimaryKey
}
