// Package basic 基于 data/db 与 data/db/sql 的轻量 IOrm 实现。
//
// 只覆盖仓储与查询执行器需要的能力：条件查询、JOIN、计数、单条增删改、
// 自增主键回填以及事务会话。
package basic

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	dbcore "sndeals/data/db"
	dbsql "sndeals/data/db/sql"
	"sndeals/data/orm"
)

type Orm struct {
	db     dbcore.IDatabase
	sql    dbsql.ISql
	fields *fieldCache
}

// New 创建绑定到 db 的 Orm；db 也可以是事务
func New(db dbcore.IDatabase) *Orm {
	return &Orm{db: db, sql: dbsql.New(db), fields: newFieldCache()}
}

// Model 表名为空属于编程错误，直接 panic
func (o *Orm) Model(meta *orm.ModelMeta) orm.IModel {
	if meta == nil || meta.Table == "" {
		panic("basic.Orm: model table is required")
	}
	return &model{orm: o, meta: meta}
}

// Begin 开启事务会话，会话内的 Model 共享同一个事务；会话不可嵌套
func (o *Orm) Begin(ctx context.Context) (orm.IOrmSession, error) {
	tx, err := o.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &session{Orm: &Orm{db: tx, sql: dbsql.New(tx), fields: o.fields}, tx: tx}, nil
}

func (o *Orm) Database() dbcore.IDatabase { return o.db }

type session struct {
	*Orm
	tx dbcore.ITransaction
}

func (s *session) Commit() error   { return s.tx.Commit() }
func (s *session) Rollback() error { return s.tx.Rollback() }

type model struct {
	orm  *Orm
	meta *orm.ModelMeta
}

func (m *model) Meta() *orm.ModelMeta { return m.meta }

// selectFor 组装 SELECT 的公共部分：列、表与 JOIN、条件、排序
func (m *model) selectFor(columns []string, qo orm.QueryOptions) (dbsql.ISelectBuilder, error) {
	from := m.meta.Table
	for _, j := range qo.Joins {
		if len(j.Args) > 0 {
			return nil, fmt.Errorf("basic.Model: join arguments are not supported: %w", orm.ErrUnsupported)
		}
		from += " " + j.Expr
	}
	builder := m.orm.sql.Select(columns...).From(from)
	for _, w := range qo.Where {
		builder = builder.Where(w.Expr, w.Args...)
	}
	if order := orderByExpr(qo.OrderBy); order != "" {
		builder = builder.OrderBy(order)
	}
	return builder, nil
}

// columnsFor 未指定列时只取基表列，避免 JOIN 带来同名列
func (m *model) columnsFor(qo orm.QueryOptions) []string {
	switch {
	case len(qo.Select) > 0:
		return qo.Select
	case len(qo.Joins) > 0:
		return []string{m.meta.Table + ".*"}
	default:
		return []string{"*"}
	}
}

func (m *model) First(ctx context.Context, dest any, opts ...orm.QueryOption) error {
	qo := orm.CollectQueryOptions(opts...)
	qo.Limit = 1
	rows, err := m.query(ctx, qo)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return orm.ErrNotFound
	}
	return m.orm.fields.scanCurrent(rows, dest)
}

func (m *model) Find(ctx context.Context, dest any, opts ...orm.QueryOption) error {
	rows, err := m.query(ctx, orm.CollectQueryOptions(opts...))
	if err != nil {
		return err
	}
	defer rows.Close()
	return m.orm.fields.scanAll(rows, dest)
}

func (m *model) query(ctx context.Context, qo orm.QueryOptions) (dbcore.IRows, error) {
	builder, err := m.selectFor(m.columnsFor(qo), qo)
	if err != nil {
		return nil, err
	}
	return builder.Limit(qo.Limit).Offset(qo.Offset).Query(ctx)
}

// Count 只保留条件与 JOIN，忽略列、排序与窗口
func (m *model) Count(ctx context.Context, opts ...orm.QueryOption) (int64, error) {
	qo := orm.CollectQueryOptions(opts...)
	qo.OrderBy = nil
	builder, err := m.selectFor([]string{"COUNT(*)"}, qo)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := builder.QueryRow(ctx).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (m *model) Create(ctx context.Context, entity any) error {
	rv, fields, err := m.orm.fields.structOf(entity)
	if err != nil {
		return fmt.Errorf("basic.Model.Create: %w", err)
	}

	var cols []string
	var vals []any
	for _, f := range fields.list {
		if f.autoIncrement {
			continue
		}
		cols = append(cols, f.column)
		vals = append(vals, rv.FieldByIndex(f.index).Interface())
	}
	builder := m.orm.sql.InsertInto(m.meta.Table).Columns(cols...).Values(vals...)

	pk, ok := fields.autoKey()
	if !ok || reflect.ValueOf(entity).Kind() != reflect.Pointer {
		_, err := builder.Exec(ctx)
		return err
	}

	var id int64
	if m.orm.sql.Dialect().SupportsReturning() {
		err = builder.Returning(pk.column).QueryRow(ctx).Scan(&id)
	} else {
		var res sql.Result
		if res, err = builder.Exec(ctx); err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return err
	}
	setInt(rv.FieldByIndex(pk.index), id)
	return nil
}

func (m *model) Save(ctx context.Context, entity any, opts ...orm.QueryOption) (int64, error) {
	qo := orm.CollectQueryOptions(opts...)
	if len(qo.Where) == 0 {
		return 0, fmt.Errorf("basic.Model.Save: update without where is not allowed")
	}
	rv, fields, err := m.orm.fields.structOf(entity)
	if err != nil {
		return 0, fmt.Errorf("basic.Model.Save: %w", err)
	}

	builder := m.orm.sql.Update(m.meta.Table)
	for _, f := range fields.list {
		if !f.primaryKey {
			builder = builder.Set(f.column, rv.FieldByIndex(f.index).Interface())
		}
	}
	for _, w := range qo.Where {
		builder = builder.Where(w.Expr, w.Args...)
	}
	return rowsAffected(builder.Exec(ctx))
}

func (m *model) Delete(ctx context.Context, opts ...orm.QueryOption) (int64, error) {
	qo := orm.CollectQueryOptions(opts...)
	if len(qo.Where) == 0 {
		return 0, fmt.Errorf("basic.Model.Delete: delete without where is not allowed")
	}
	builder := m.orm.sql.DeleteFrom(m.meta.Table)
	for _, w := range qo.Where {
		builder = builder.Where(w.Expr, w.Args...)
	}
	return rowsAffected(builder.Exec(ctx))
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func orderByExpr(orders []orm.OrderBy) string {
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		parts = append(parts, o.Column+dir)
	}
	return strings.Join(parts, ", ")
}
