package orm

import "errors"

var (
	// ErrNotFound First 未命中任何记录
	ErrNotFound = errors.New("orm: record not found")
	// ErrUnsupported 适配器不支持的操作
	ErrUnsupported = errors.New("orm: operation not supported")
)
