package repo

import (
	"context"

	"sndeals/data/orm"
)

// queryBuilder 收集条件后委托给 IModel，一次性使用
type queryBuilder struct {
	ctx   context.Context
	model orm.IModel
	opts  []orm.QueryOption
}

func newQueryBuilder(model orm.IModel, ctx context.Context) *queryBuilder {
	return &queryBuilder{
		ctx:   ctx,
		model: model,
	}
}

func (q *queryBuilder) Where(expr string, args ...any) *queryBuilder {
	q.opts = append(q.opts, orm.WithWhere(expr, args...))
	return q
}

func (q *queryBuilder) Order(column string, desc bool) *queryBuilder {
	q.opts = append(q.opts, orm.WithOrderBy(column, desc))
	return q
}

func (q *queryBuilder) First(dest any) error {
	return q.model.First(q.ctx, dest, q.opts...)
}

func (q *queryBuilder) Find(dest any) error {
	return q.model.Find(q.ctx, dest, q.opts...)
}

func (q *queryBuilder) Count() (int64, error) {
	return q.model.Count(q.ctx, q.opts...)
}

func (q *queryBuilder) Create(entity any) error {
	return q.model.Create(q.ctx, entity)
}

func (q *queryBuilder) Save(entity any) (int64, error) {
	return q.model.Save(q.ctx, entity, q.opts...)
}

func (q *queryBuilder) Delete() (int64, error) {
	return q.model.Delete(q.ctx, q.opts...)
}
