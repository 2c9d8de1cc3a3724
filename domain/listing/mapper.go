package listing

import (
	"context"

	"sndeals/data/orm/repo"
	"sndeals/domain/entity"
	"sndeals/errors"
)

// 显示字段（分类名、帖子标题）按批次通过 ListByIds 解析，避免逐行查询

// CategoryMapper 分类与 DTO 互转
type CategoryMapper struct{}

func (CategoryMapper) ToEntity(d *CategoryDTO) *Category {
	return &Category{ID: d.ID, InternalID: d.InternalID, DisplayName: d.DisplayName}
}

func (CategoryMapper) ToDTOs(_ context.Context, items []*Category) ([]*CategoryDTO, error) {
	out := make([]*CategoryDTO, len(items))
	for i, c := range items {
		out[i] = &CategoryDTO{ID: c.ID, InternalID: c.InternalID, DisplayName: c.DisplayName}
	}
	return out, nil
}

// PostMapper 帖子与 DTO 互转，填充分类显示名
type PostMapper struct {
	Categories *repo.Repo[*Category]
}

func (PostMapper) ToEntity(d *PostDTO) *Post {
	return &Post{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Status:      d.Status,
		CreatedBy:   d.CreatedBy,
		CategoryID:  d.CategoryID,
	}
}

// CheckReferences categoryId 指向的分类必须存在
func (m PostMapper) CheckReferences(ctx context.Context, d *PostDTO) error {
	return checkReference(ctx, m.Categories, "categoryId", d.CategoryID)
}

func (m PostMapper) ToDTOs(ctx context.Context, items []*Post) ([]*PostDTO, error) {
	ids := make([]int64, 0, len(items))
	for _, p := range items {
		if p.CategoryID != nil {
			ids = append(ids, *p.CategoryID)
		}
	}
	categories, err := m.Categories.ListByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.DisplayName
	}

	out := make([]*PostDTO, len(items))
	for i, p := range items {
		d := &PostDTO{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Location:    p.Location,
			Status:      p.Status,
			CreatedBy:   p.CreatedBy,
			CategoryID:  p.CategoryID,
		}
		if p.CategoryID != nil {
			d.CategoryDisplayName = names[*p.CategoryID]
		}
		out[i] = d
	}
	return out, nil
}

// CommentMapper 评论与 DTO 互转，填充帖子标题
type CommentMapper struct {
	Posts *repo.Repo[*Post]
}

func (CommentMapper) ToEntity(d *CommentDTO) *Comment {
	return &Comment{ID: d.ID, Comment: d.Comment, PostID: d.PostID}
}

func (m CommentMapper) CheckReferences(ctx context.Context, d *CommentDTO) error {
	return checkReference(ctx, m.Posts, "postId", d.PostID)
}

func (m CommentMapper) ToDTOs(ctx context.Context, items []*Comment) ([]*CommentDTO, error) {
	titles, err := postTitles(ctx, m.Posts, items, func(c *Comment) *int64 { return c.PostID })
	if err != nil {
		return nil, err
	}
	out := make([]*CommentDTO, len(items))
	for i, c := range items {
		d := &CommentDTO{ID: c.ID, Comment: c.Comment, PostID: c.PostID}
		if c.PostID != nil {
			d.PostTitle = titles[*c.PostID]
		}
		out[i] = d
	}
	return out, nil
}

// AttachmentMapper 附件与 DTO 互转
type AttachmentMapper struct {
	Posts *repo.Repo[*Post]
}

func (AttachmentMapper) ToEntity(d *AttachmentDTO) *Attachment {
	return &Attachment{
		ID:                 d.ID,
		FileName:           d.FileName,
		Content:            d.Content,
		ContentContentType: d.ContentContentType,
		PostID:             d.PostID,
	}
}

func (m AttachmentMapper) CheckReferences(ctx context.Context, d *AttachmentDTO) error {
	return checkReference(ctx, m.Posts, "postId", d.PostID)
}

func (AttachmentMapper) ToDTOs(_ context.Context, items []*Attachment) ([]*AttachmentDTO, error) {
	out := make([]*AttachmentDTO, len(items))
	for i, a := range items {
		out[i] = &AttachmentDTO{
			ID:                 a.ID,
			FileName:           a.FileName,
			Content:            a.Content,
			ContentContentType: a.ContentContentType,
			PostID:             a.PostID,
		}
	}
	return out, nil
}

// checkReference 空引用合法；指向不存在的记录时返回 VALIDATION_ERROR
func checkReference[T entity.IEntity](ctx context.Context, r *repo.Repo[T], field string, id *int64) error {
	if id == nil {
		return nil
	}
	ok, err := r.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Newf(errors.ErrCodeValidation, "%s %d does not exist", field, *id)
	}
	return nil
}

func postTitles[E any](ctx context.Context, posts *repo.Repo[*Post], items []E, postID func(E) *int64) (map[int64]string, error) {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if id := postID(it); id != nil {
			ids = append(ids, *id)
		}
	}
	found, err := posts.ListByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	titles := make(map[int64]string, len(found))
	for _, p := range found {
		titles[p.ID] = p.Title
	}
	return titles, nil
}
