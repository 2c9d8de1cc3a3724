// Package entity 定义领域实体的核心接口。
//
// 实体以指针形式流经仓储与服务层，主键统一为 int64 自增。
package entity

// IObject 最基础的对象接口，所有实体的根接口
type IObject[T comparable] interface {
	// GetID 返回对象的唯一标识，零值表示尚未持久化
	GetID() T
}

// IIdentifiable 允许服务层在更新前写入主键
type IIdentifiable[T comparable] interface {
	IObject[T]
	SetID(id T)
}

// IValidatable 可验证接口
type IValidatable interface {
	// Validate 验证实体状态是否有效，返回 error 表示验证失败
	Validate() error
}

// IEntity 仓储可管理的实体
type IEntity interface {
	IIdentifiable[int64]
	IValidatable
}

// INamed 提供事件与日志中使用的实体名（如 "post"）
type INamed interface {
	EntityName() string
}
