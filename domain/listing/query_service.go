package listing

import (
	"context"

	"sndeals/query"
)

// IDTOMapper 把一批实体转换为 DTO
type IDTOMapper[E, D any] interface {
	ToDTOs(ctx context.Context, items []E) ([]D, error)
}

// QueryService 条件查询门面：编译与执行交给 query.Service，结果转换为 DTO
type QueryService[E, D any] struct {
	svc    *query.Service[E]
	mapper IDTOMapper[E, D]
}

// 四类实体的查询门面
type (
	PostQueryService       = QueryService[*Post, *PostDTO]
	CategoryQueryService   = QueryService[*Category, *CategoryDTO]
	CommentQueryService    = QueryService[*Comment, *CommentDTO]
	AttachmentQueryService = QueryService[*Attachment, *AttachmentDTO]
)

func NewPostQueryService(r *Repositories) *PostQueryService {
	return &PostQueryService{
		svc:    query.MustService[*Post](PostSchema, r.Posts.Model()),
		mapper: PostMapper{Categories: r.Categories},
	}
}

func NewCategoryQueryService(r *Repositories) *CategoryQueryService {
	return &CategoryQueryService{
		svc:    query.MustService[*Category](CategorySchema, r.Categories.Model()),
		mapper: CategoryMapper{},
	}
}

func NewCommentQueryService(r *Repositories) *CommentQueryService {
	return &CommentQueryService{
		svc:    query.MustService[*Comment](CommentSchema, r.Comments.Model()),
		mapper: CommentMapper{Posts: r.Posts},
	}
}

func NewAttachmentQueryService(r *Repositories) *AttachmentQueryService {
	return &AttachmentQueryService{
		svc:    query.MustService[*Attachment](AttachmentSchema, r.Attachments.Model()),
		mapper: AttachmentMapper{Posts: r.Posts},
	}
}

// Schema 返回实体查询元数据，REST 层据此解析请求参数
func (q *QueryService[E, D]) Schema() *query.Schema { return q.svc.Schema() }

// FindByCriteria 返回全部匹配记录
func (q *QueryService[E, D]) FindByCriteria(ctx context.Context, c query.Criteria) ([]D, error) {
	items, err := q.svc.List(ctx, c)
	if err != nil {
		return nil, err
	}
	return q.mapper.ToDTOs(ctx, items)
}

// FindPageByCriteria 返回一页匹配记录与总数
func (q *QueryService[E, D]) FindPageByCriteria(ctx context.Context, c query.Criteria, w *query.PageWindow) (*query.Page[D], error) {
	page, err := q.svc.Page(ctx, c, w)
	if err != nil {
		return nil, err
	}
	items, err := q.mapper.ToDTOs(ctx, page.Items)
	if err != nil {
		return nil, err
	}
	return &query.Page[D]{Items: items, Total: page.Total, Number: page.Number, Size: page.Size, TotalPages: page.TotalPages}, nil
}

// CountByCriteria 返回匹配记录数
func (q *QueryService[E, D]) CountByCriteria(ctx context.Context, c query.Criteria) (int64, error) {
	return q.svc.Count(ctx, c)
}
