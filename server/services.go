package server

import (
	"sndeals/data/orm"
	"sndeals/domain/crud"
	"sndeals/domain/listing"
	"sndeals/messaging"
)

// Services 四类资源的 CRUD 服务与查询门面
type Services struct {
	Repos *listing.Repositories

	Posts       *crud.Service[*listing.Post, *listing.PostDTO]
	Categories  *crud.Service[*listing.Category, *listing.CategoryDTO]
	Comments    *crud.Service[*listing.Comment, *listing.CommentDTO]
	Attachments *crud.Service[*listing.Attachment, *listing.AttachmentDTO]

	PostQueries       *listing.PostQueryService
	CategoryQueries   *listing.CategoryQueryService
	CommentQueries    *listing.CommentQueryService
	AttachmentQueries *listing.AttachmentQueryService
}

// NewServices 在同一 ORM 引擎上组装全部服务，写操作事件交给 publisher
func NewServices(o orm.IOrm, publisher messaging.IPublisher) *Services {
	r := listing.NewRepositories(o)
	s := &Services{
		Repos:             r,
		PostQueries:       listing.NewPostQueryService(r),
		CategoryQueries:   listing.NewCategoryQueryService(r),
		CommentQueries:    listing.NewCommentQueryService(r),
		AttachmentQueries: listing.NewAttachmentQueryService(r),
	}
	s.Posts = crud.NewService[*listing.Post, *listing.PostDTO](
		"post", r.Posts, listing.PostMapper{Categories: r.Categories}, s.PostQueries, publisher)
	s.Categories = crud.NewService[*listing.Category, *listing.CategoryDTO](
		"category", r.Categories, listing.CategoryMapper{}, s.CategoryQueries, publisher)
	s.Comments = crud.NewService[*listing.Comment, *listing.CommentDTO](
		"comment", r.Comments, listing.CommentMapper{Posts: r.Posts}, s.CommentQueries, publisher)
	s.Attachments = crud.NewService[*listing.Attachment, *listing.AttachmentDTO](
		"attachment", r.Attachments, listing.AttachmentMapper{Posts: r.Posts}, s.AttachmentQueries, publisher)
	return s
}
