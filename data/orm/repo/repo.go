// Package repo 提供基于 data/orm 的泛型仓储。
//
// 仓储只做单表读写，条件查询由 query 包编译后交给 IModel 执行。
package repo

import (
	"context"

	"sndeals/data/orm"
	"sndeals/domain/entity"
)

// Repo 基于 data/orm 的通用仓储实现。
// T 为实体指针类型，例如 *listing.Post。
type Repo[T entity.IEntity] struct {
	orm   orm.IOrm
	model orm.IModel
	pk    string
}

// NewRepo 创建基础仓储实例。
func NewRepo[T entity.IEntity](ormEngine orm.IOrm, tableName string) *Repo[T] {
	meta := &orm.ModelMeta{Table: tableName, PrimaryKey: "id"}
	return &Repo[T]{
		orm:   ormEngine,
		model: ormEngine.Model(meta),
		pk:    meta.PK(),
	}
}

func (r *Repo[T]) query(ctx context.Context) *queryBuilder {
	return newQueryBuilder(r.model, ctx)
}

// Model 暴露底层模型，供查询执行器复用。
func (r *Repo[T]) Model() orm.IModel { return r.model }

// Orm 返回绑定的 ORM 引擎。
func (r *Repo[T]) Orm() orm.IOrm { return r.orm }

// Table 返回表名
func (r *Repo[T]) Table() string { return r.model.Meta().Table }
