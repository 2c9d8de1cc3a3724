package listing

import "sndeals/query"

// 各实体的查询元数据；Fields 顺序决定谓词顺序
var (
	PostSchema = &query.Schema{
		Name:  "post",
		Table: "post",
		Fields: []query.Field{
			{Name: "id", Column: "id", Kind: query.KindInt64},
			{Name: "title", Column: "title", Kind: query.KindString},
			{Name: "description", Column: "description", Kind: query.KindString},
			{Name: "location", Column: "location", Kind: query.KindString},
			{Name: "status", Column: "status", Kind: query.KindString},
			{Name: "createdBy", Column: "created_by", Kind: query.KindString},
			{Name: "categoryId", Column: "category_id", Kind: query.KindInt64},
		},
		Parent: &query.Parent{Field: "categoryId", Column: "category_id", Table: "category", RefColumn: "id"},
	}

	CategorySchema = &query.Schema{
		Name:  "category",
		Table: "category",
		Fields: []query.Field{
			{Name: "id", Column: "id", Kind: query.KindInt64},
			{Name: "internalId", Column: "internal_id", Kind: query.KindString},
			{Name: "displayName", Column: "display_name", Kind: query.KindString},
		},
	}

	CommentSchema = &query.Schema{
		Name:  "comment",
		Table: "comment",
		Fields: []query.Field{
			{Name: "id", Column: "id", Kind: query.KindInt64},
			{Name: "comment", Column: "comment", Kind: query.KindString},
			{Name: "postId", Column: "post_id", Kind: query.KindInt64},
		},
		Parent: &query.Parent{Field: "postId", Column: "post_id", Table: "post", RefColumn: "id"},
	}

	AttachmentSchema = &query.Schema{
		Name:  "attachment",
		Table: "resource",
		Fields: []query.Field{
			{Name: "id", Column: "id", Kind: query.KindInt64},
			{Name: "fileName", Column: "file_name", Kind: query.KindString},
			{Name: "postId", Column: "post_id", Kind: query.KindInt64},
		},
		Parent: &query.Parent{Field: "postId", Column: "post_id", Table: "post", RefColumn: "id"},
	}
)
