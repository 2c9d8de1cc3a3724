package listing

import "sndeals/query"

// PostCriteria 帖子过滤条件，未设置的字段不参与过滤
type PostCriteria struct {
	ID          query.Filter[int64]
	Title       query.Filter[string]
	Description query.Filter[string]
	Location    query.Filter[string]
	Status      query.Filter[string]
	CreatedBy   query.Filter[string]
	CategoryID  query.Filter[int64]
}

func (c *PostCriteria) Conditions() []query.Condition {
	if c == nil {
		return nil
	}
	var conds []query.Condition
	conds = c.ID.AppendTo(conds, "id")
	conds = c.Title.AppendTo(conds, "title")
	conds = c.Description.AppendTo(conds, "description")
	conds = c.Location.AppendTo(conds, "location")
	conds = c.Status.AppendTo(conds, "status")
	conds = c.CreatedBy.AppendTo(conds, "createdBy")
	conds = c.CategoryID.AppendTo(conds, "categoryId")
	return conds
}

// CategoryCriteria 分类过滤条件
type CategoryCriteria struct {
	ID          query.Filter[int64]
	InternalID  query.Filter[string]
	DisplayName query.Filter[string]
}

func (c *CategoryCriteria) Conditions() []query.Condition {
	if c == nil {
		return nil
	}
	var conds []query.Condition
	conds = c.ID.AppendTo(conds, "id")
	conds = c.InternalID.AppendTo(conds, "internalId")
	conds = c.DisplayName.AppendTo(conds, "displayName")
	return conds
}

// CommentCriteria 评论过滤条件
type CommentCriteria struct {
	ID      query.Filter[int64]
	Comment query.Filter[string]
	PostID  query.Filter[int64]
}

func (c *CommentCriteria) Conditions() []query.Condition {
	if c == nil {
		return nil
	}
	var conds []query.Condition
	conds = c.ID.AppendTo(conds, "id")
	conds = c.Comment.AppendTo(conds, "comment")
	conds = c.PostID.AppendTo(conds, "postId")
	return conds
}

// AttachmentCriteria 附件过滤条件
type AttachmentCriteria struct {
	ID       query.Filter[int64]
	FileName query.Filter[string]
	PostID   query.Filter[int64]
}

func (c *AttachmentCriteria) Conditions() []query.Condition {
	if c == nil {
		return nil
	}
	var conds []query.Condition
	conds = c.ID.AppendTo(conds, "id")
	conds = c.FileName.AppendTo(conds, "fileName")
	conds = c.PostID.AppendTo(conds, "postId")
	return conds
}
