package repo

import (
	"context"
	ers "errors"
	"strings"

	"sndeals/data/orm"
	"sndeals/errors"
)

// Get 根据ID获取
func (r *Repo[T]) Get(ctx context.Context, id int64) (T, error) {
	var entity T
	err := r.query(ctx).
		Where(r.pk+" = ?", id).
		First(&entity)
	if err != nil {
		var zero T
		if ers.Is(err, orm.ErrNotFound) {
			return zero, errors.Newf(errors.ErrCodeNotFound, "%s %d not found", r.Table(), id)
		}
		return zero, errors.WrapDatabaseError(ctx, err, "failed to query record")
	}
	return entity, nil
}

// Exists 主键是否存在
func (r *Repo[T]) Exists(ctx context.Context, id int64) (bool, error) {
	count, err := r.query(ctx).
		Where(r.pk+" = ?", id).
		Count()
	if err != nil {
		return false, errors.WrapDatabaseError(ctx, err, "failed to check record existence")
	}
	return count > 0, nil
}

// ListByIds 批量读取，重复与零值 ID 会被忽略；返回顺序为主键升序
func (r *Repo[T]) ListByIds(ctx context.Context, ids []int64) ([]T, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []T{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	entities := []T{}
	if err := r.query(ctx).
		Where(r.pk+" IN ("+placeholders+")", args...).
		Order(r.pk, false).
		Find(&entities); err != nil {
		return nil, errors.WrapDatabaseError(ctx, err, "failed to list records by IDs")
	}
	return entities, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
