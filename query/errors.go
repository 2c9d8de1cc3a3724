package query

import "sndeals/errors"

// 哨兵错误，按错误码匹配：errors.Is(err, query.ErrInvalidCriteria)
var (
	ErrInvalidCriteria      = errors.NewError(errors.ErrCodeInvalidCriteria, "invalid criteria")
	ErrInvalidPageWindow    = errors.NewError(errors.ErrCodeInvalidPageWindow, "invalid page window")
	ErrQueryExecutionFailed = errors.NewError(errors.ErrCodeQueryExecutionFailed, "query execution failed")
)
