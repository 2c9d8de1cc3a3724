package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sndeals/errors"
)

func TestParseValues(t *testing.T) {
	params := url.Values{
		"postId":          {"3"},
		"fileName.equals": {"invoice.pdf"},
		"page":            {"2"},
		"size":            {"10"},
		"sort":            {"id,desc"},
	}
	vals, err := ParseValues(attachmentSchema, params)
	require.NoError(t, err)
	// schema 字段顺序，而非参数顺序
	assert.Equal(t, Values{
		{Field: "fileName", Value: "invoice.pdf"},
		{Field: "postId", Value: int64(3)},
	}, vals)
}

func TestParseValues_Empty(t *testing.T) {
	vals, err := ParseValues(categorySchema, url.Values{"number": {"1"}})
	require.NoError(t, err)
	assert.Empty(t, vals.Conditions())
}

func TestParseValues_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
	}{
		{"unknown field", url.Values{"price": {"10"}}},
		{"range operator", url.Values{"id.greaterThan": {"10"}}},
		{"contains operator", url.Values{"title.contains": {"desk"}}},
		{"null check", url.Values{"categoryId.specified": {"true"}}},
		{"not an integer", url.Values{"categoryId": {"five"}}},
		{"same field twice", url.Values{"title": {"Desk"}, "title.equals": {"Chair"}}},
		{"repeated key", url.Values{"status": {"OPEN", "CLOSED"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseValues(postSchema, tt.params)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrCodeInvalidCriteria), err.Error())
		})
	}
}
