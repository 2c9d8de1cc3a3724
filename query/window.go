package query

import (
	"math"

	"sndeals/errors"
)

// PageWindow 1 起始的页码与页大小
type PageWindow struct {
	Size   int `json:"size"`
	Number int `json:"number"`
}

// Validate 页大小与页码都必须为正数；页码为 0 时直接拒绝，不做修正
func (w PageWindow) Validate() error {
	if w.Size <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPageWindow, "page size must be positive, got %d", w.Size)
	}
	if w.Number < 1 {
		return errors.Newf(errors.ErrCodeInvalidPageWindow, "page number must be >= 1, got %d", w.Number)
	}
	// 偏移量溢出会变成负数，ORM 会忽略非正偏移而退回第一页
	if w.Number-1 > math.MaxInt/w.Size {
		return errors.Newf(errors.ErrCodeInvalidPageWindow, "page number %d is out of range for size %d", w.Number, w.Size)
	}
	return nil
}

func (w PageWindow) Offset() int { return (w.Number - 1) * w.Size }
func (w PageWindow) Limit() int  { return w.Size }
