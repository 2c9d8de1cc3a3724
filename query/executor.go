package query

import (
	"context"
	"time"

	"sndeals/data/orm"
	"sndeals/errors"
	"sndeals/logging"
	"sndeals/metrics"
)

// Executor 在 IModel 上执行编译后的描述，只读
type Executor[T any] struct {
	model  orm.IModel
	logger logging.Logger
}

// NewExecutor 创建执行器，T 为实体指针类型
func NewExecutor[T any](model orm.IModel) *Executor[T] {
	return &Executor[T]{
		model:  model,
		logger: logging.ComponentLogger("query.executor"),
	}
}

// Find 返回匹配的记录；存储层错误包装为 QUERY_EXECUTION_FAILED，不重试
func (e *Executor[T]) Find(ctx context.Context, d Descriptor) (items []T, err error) {
	start := time.Now()
	defer func() { e.observe(ctx, d, "find", start, err) }()

	if err = e.check(d); err != nil {
		return nil, err
	}
	items = []T{}
	if ferr := e.model.Find(ctx, &items, options(d, true)...); ferr != nil {
		return nil, errors.WrapError(ferr, errors.ErrCodeQueryExecutionFailed, "failed to execute "+d.Entity+" query")
	}
	return items, nil
}

// Count 以 COUNT(*) 统计与 Find 相同关联与谓词下的行数，忽略窗口
func (e *Executor[T]) Count(ctx context.Context, d Descriptor) (total int64, err error) {
	start := time.Now()
	defer func() { e.observe(ctx, d, "count", start, err) }()

	if err = e.check(d); err != nil {
		return 0, err
	}
	total, cerr := e.model.Count(ctx, options(d.Unbounded(), false)...)
	if cerr != nil {
		return 0, errors.WrapError(cerr, errors.ErrCodeQueryExecutionFailed, "failed to count "+d.Entity)
	}
	return total, nil
}

func (e *Executor[T]) check(d Descriptor) error {
	meta := e.model.Meta()
	if meta == nil || d.Table == "" || meta.Table != d.Table {
		return errors.Newf(errors.ErrCodeQueryExecutionFailed, "descriptor for table %q does not match model", d.Table)
	}
	return nil
}

func (e *Executor[T]) observe(ctx context.Context, d Descriptor, op string, start time.Time, err error) {
	metrics.ObserveQuery(d.Entity, op, start, err)
	if err != nil {
		e.logger.Warn(ctx, "query failed",
			logging.String("entity", d.Entity),
			logging.String("op", op),
			logging.String("query", d.String()),
			logging.Error(err))
		return
	}
	e.logger.Debug(ctx, "query executed",
		logging.String("entity", d.Entity),
		logging.String("op", op),
		logging.String("query", d.String()),
		logging.Duration("elapsed", time.Since(start)))
}

// options 把描述转换为 ORM 查询选项
func options(d Descriptor, rows bool) []orm.QueryOption {
	opts := make([]orm.QueryOption, 0, len(d.Joins)+5)
	if rows {
		opts = append(opts, orm.WithSelect(d.Table+".*"))
	}
	for _, j := range d.Joins {
		opts = append(opts, orm.WithJoin(j.String()))
	}
	if expr, args := d.Where(); expr != "" {
		opts = append(opts, orm.WithWhere(expr, args...))
	}
	if rows {
		opts = append(opts, orm.WithOrderBy(d.OrderBy, false))
		if d.Bounds != nil {
			opts = append(opts, orm.WithLimit(d.Bounds.Limit), orm.WithOffset(d.Bounds.Offset))
		}
	}
	return opts
}
