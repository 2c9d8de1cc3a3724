package query

import (
	"fmt"
	"strings"

	"sndeals/data/db/dialect"
)

// Kind 字段标量类型
type Kind int

const (
	KindInt64 Kind = iota
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field 可过滤字段：Name 为对外名称（如 fileName），Column 为基表列名
type Field struct {
	Name   string
	Column string
	Kind   Kind
}

// Parent 父关系过滤：设置时编译为 INNER JOIN 并以外键相等约束结果
type Parent struct {
	// Field 条件中的槽位名，必须同时在 Schema.Fields 中声明
	Field string
	// Column 基表上的外键列
	Column string
	// Table 与 RefColumn 描述被引用的父表与其主键
	Table     string
	RefColumn string
}

// Schema 实体类型的查询元数据；Fields 的顺序即谓词的固定顺序
type Schema struct {
	Name       string
	Table      string
	PrimaryKey string
	Fields     []Field
	Parent     *Parent
}

// Validate 校验元数据，Schema 通常在包初始化时声明，校验失败属于编程错误
func (s *Schema) Validate() error {
	if s == nil {
		return fmt.Errorf("query: nil schema")
	}
	if !isSafeIdentifier(s.Table) {
		return fmt.Errorf("query: schema %q has unsafe table %q", s.Name, s.Table)
	}
	if !isSafeIdentifier(s.pk()) {
		return fmt.Errorf("query: schema %q has unsafe primary key %q", s.Name, s.PrimaryKey)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("query: schema %q has a field without name", s.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("query: schema %q declares field %q twice", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if !isSafeIdentifier(f.Column) {
			return fmt.Errorf("query: schema %q field %q has unsafe column %q", s.Name, f.Name, f.Column)
		}
	}
	if p := s.Parent; p != nil {
		f, ok := s.field(p.Field)
		if !ok {
			return fmt.Errorf("query: schema %q parent slot %q is not a declared field", s.Name, p.Field)
		}
		if f.Column != p.Column {
			return fmt.Errorf("query: schema %q parent slot %q column mismatch", s.Name, p.Field)
		}
		if !isSafeIdentifier(p.Table) || !isSafeIdentifier(p.RefColumn) {
			return fmt.Errorf("query: schema %q has unsafe parent reference", s.Name)
		}
	}
	return nil
}

// FieldNames 按声明顺序返回对外字段名
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

func (s *Schema) pk() string {
	if s.PrimaryKey == "" {
		return "id"
	}
	return s.PrimaryKey
}

func (s *Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s *Schema) qualify(column string) string {
	return s.Table + "." + column
}

func (s *Schema) isParent(name string) bool {
	return s.Parent != nil && s.Parent.Field == name
}

// isSafeIdentifier schema 中的表名列名必须是不带限定前缀的简单标识符
func isSafeIdentifier(name string) bool {
	return !strings.Contains(name, ".") && dialect.IsSafeIdentifier(name)
}
