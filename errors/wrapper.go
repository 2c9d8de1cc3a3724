package errors

import (
	"context"
	"fmt"
	"runtime"

	"sndeals/logging"
)

// WrapWithLog 包装错误并在调用处留一条 warn 日志
func WrapWithLog(ctx context.Context, err error, code ErrorCode, msg string, fields ...logging.Field) error {
	if err == nil {
		return nil
	}
	_, file, line, _ := runtime.Caller(1)
	logging.GetLogger().Warn(ctx, msg, append(fields,
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)),
	)...)
	return WrapError(err, code, msg)
}

// WrapDatabaseError 仓储层的存储错误出口：NOT_FOUND 原样保留错误码，其余归为 DATABASE_ERROR 并记录
func WrapDatabaseError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return WrapError(err, ErrCodeNotFound, operation)
	}
	return WrapWithLog(ctx, err, ErrCodeDatabase, "database operation failed: "+operation,
		logging.String("operation", operation))
}
