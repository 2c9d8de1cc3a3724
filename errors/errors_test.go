package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError_NilStaysNil(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrCodeDatabase, "x"))
	assert.NoError(t, WrapDatabaseError(context.Background(), nil, "select"))
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	sentinel := NewError(ErrCodeInvalidCriteria, "invalid criteria")
	err := Newf(ErrCodeInvalidCriteria, "unknown field %q", "foo")

	assert.True(t, stdErrors.Is(err, sentinel))
	assert.False(t, stdErrors.Is(err, NewError(ErrCodeInvalidPageWindow, "")))
	assert.Equal(t, "[INVALID_CRITERIA] unknown field \"foo\"", err.Error())
}

func TestAppError_UnwrapReachesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := WrapError(cause, ErrCodeQueryExecutionFailed, "query post failed")

	assert.True(t, stdErrors.Is(err, cause))
	assert.Equal(t, cause, err.Cause())
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotEmpty(t, err.Stack())
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetErrorCode(nil))
	assert.Equal(t, ErrCodeInternal, GetErrorCode(stdErrors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", NewError(ErrCodeNotFound, "post not found"))
	assert.Equal(t, ErrCodeNotFound, GetErrorCode(wrapped))
	assert.True(t, IsNotFound(wrapped))
}

func TestWithContext_DoesNotMutateOriginal(t *testing.T) {
	base := NewError(ErrCodeValidation, "title is required")
	withField := base.WithContext("field", "title")

	assert.Empty(t, base.Details())
	assert.Equal(t, "title", withField.Details()["field"])
}

func TestWrapDatabaseError(t *testing.T) {
	ctx := context.Background()

	notFound := NewError(ErrCodeNotFound, "missing")
	require.True(t, IsNotFound(WrapDatabaseError(ctx, notFound, "get post")))

	dbErr := WrapDatabaseError(ctx, stdErrors.New("disk I/O error"), "insert post")
	assert.Equal(t, ErrCodeDatabase, GetErrorCode(dbErr))
	assert.Contains(t, dbErr.Error(), "insert post")
}
