package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_Validate(t *testing.T) {
	for _, s := range []*Schema{postSchema, commentSchema, attachmentSchema, categorySchema} {
		assert.NoError(t, s.Validate(), s.Name)
	}

	tests := []struct {
		name   string
		schema *Schema
	}{
		{"nil", nil},
		{"unsafe table", &Schema{Name: "x", Table: "post; DROP"}},
		{"unsafe column", &Schema{Name: "x", Table: "post", Fields: []Field{{Name: "a", Column: "a b"}}}},
		{"duplicate field", &Schema{Name: "x", Table: "post", Fields: []Field{{Name: "a", Column: "a"}, {Name: "a", Column: "b"}}}},
		{"undeclared parent", &Schema{Name: "x", Table: "post", Parent: &Parent{Field: "categoryId", Column: "category_id", Table: "category", RefColumn: "id"}}},
		{"parent column mismatch", &Schema{
			Name:   "x",
			Table:  "post",
			Fields: []Field{{Name: "categoryId", Column: "cat"}},
			Parent: &Parent{Field: "categoryId", Column: "category_id", Table: "category", RefColumn: "id"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.schema.Validate())
		})
	}
}

func TestSchema_FieldNames(t *testing.T) {
	assert.Equal(t, []string{"id", "fileName", "postId"}, attachmentSchema.FieldNames())
}
