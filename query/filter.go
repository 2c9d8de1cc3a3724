// Package query 把按字段的等值过滤条件编译为参数化查询描述，并在 ORM 之上执行。
//
// 四类实体（帖子、分类、评论、附件）共享同一个编译器与执行器，
// 差异只体现在 Schema 元数据上。
package query

// Scalar 过滤值允许的标量类型
type Scalar interface {
	~int64 | ~string
}

// Filter 可选的等值过滤值，零值表示未设置
type Filter[T Scalar] struct {
	value T
	set   bool
}

// Eq 构造已设置的过滤值
func Eq[T Scalar](v T) Filter[T] {
	return Filter[T]{value: v, set: true}
}

// Get 返回过滤值以及是否已设置
func (f Filter[T]) Get() (T, bool) {
	return f.value, f.set
}

func (f Filter[T]) IsSet() bool { return f.set }

// AppendTo 已设置时把 field = value 追加到条件列表
func (f Filter[T]) AppendTo(conds []Condition, field string) []Condition {
	if !f.set {
		return conds
	}
	return append(conds, Condition{Field: field, Value: f.value})
}
