package repo

import (
	"context"

	"sndeals/errors"
)

// Create 校验后插入，成功时实体主键已回填
func (r *Repo[T]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(); err != nil {
		return err
	}
	if err := r.query(ctx).Create(entity); err != nil {
		return errors.WrapDatabaseError(ctx, err, "保存记录失败")
	}
	return nil
}

// Update 整行更新；记录不存在时返回 NOT_FOUND
func (r *Repo[T]) Update(ctx context.Context, entity T) error {
	if err := entity.Validate(); err != nil {
		return err
	}
	id := entity.GetID()
	affected, err := r.query(ctx).
		Where(r.pk+" = ?", id).
		Save(entity)
	if err != nil {
		return errors.WrapDatabaseError(ctx, err, "更新记录失败")
	}
	if affected == 0 {
		return errors.Newf(errors.ErrCodeNotFound, "%s %d not found", r.Table(), id)
	}
	return nil
}

// Delete 物理删除；记录不存在时返回 NOT_FOUND
func (r *Repo[T]) Delete(ctx context.Context, id int64) error {
	affected, err := r.query(ctx).
		Where(r.pk+" = ?", id).
		Delete()
	if err != nil {
		return errors.WrapDatabaseError(ctx, err, "删除记录失败")
	}
	if affected == 0 {
		return errors.Newf(errors.ErrCodeNotFound, "%s %d not found", r.Table(), id)
	}
	return nil
}
