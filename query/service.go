package query

import (
	"context"

	"sndeals/data/orm"
	"sndeals/errors"
)

// Page 分页结果，Total 为与窗口无关的总数
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalPages int   `json:"totalPages"`
}

// Service 某类实体的 list / page / count 入口，三者共用同一次编译路径
type Service[T any] struct {
	schema *Schema
	exec   *Executor[T]
}

// NewService schema 非法时返回错误
func NewService[T any](schema *Schema, model orm.IModel) (*Service[T], error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Service[T]{schema: schema, exec: NewExecutor[T](model)}, nil
}

// MustService 用于包级初始化，schema 非法时 panic
func MustService[T any](schema *Schema, model orm.IModel) *Service[T] {
	s, err := NewService[T](schema, model)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Service[T]) Schema() *Schema { return s.schema }

// List 返回全部匹配记录，按主键升序
func (s *Service[T]) List(ctx context.Context, c Criteria) ([]T, error) {
	d, err := Compile(s.schema, c, nil)
	if err != nil {
		return nil, err
	}
	return s.exec.Find(ctx, d)
}

// Page 行查询带窗口，总数由同一条件的无窗口计数得到
func (s *Service[T]) Page(ctx context.Context, c Criteria, w *PageWindow) (*Page[T], error) {
	if w == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidPageWindow, "page window is required")
	}
	d, err := Compile(s.schema, c, w)
	if err != nil {
		return nil, err
	}
	total, err := s.exec.Count(ctx, d.Unbounded())
	if err != nil {
		return nil, err
	}
	items, err := s.exec.Find(ctx, d)
	if err != nil {
		return nil, err
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Number:     w.Number,
		Size:       w.Size,
		TotalPages: totalPages(total, w.Size),
	}, nil
}

// Count 与 List 同一条件下的行数
func (s *Service[T]) Count(ctx context.Context, c Criteria) (int64, error) {
	d, err := Compile(s.schema, c, nil)
	if err != nil {
		return 0, err
	}
	return s.exec.Count(ctx, d)
}

func totalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
