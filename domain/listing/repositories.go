package listing

import (
	"sndeals/data/orm"
	"sndeals/data/orm/repo"
)

// Repositories 各实体仓储，共用同一个 ORM 引擎
type Repositories struct {
	Categories  *repo.Repo[*Category]
	Posts       *repo.Repo[*Post]
	Comments    *repo.Repo[*Comment]
	Attachments *repo.Repo[*Attachment]
	Users       *UserRepository
}

func NewRepositories(o orm.IOrm) *Repositories {
	return &Repositories{
		Categories:  repo.NewRepo[*Category](o, CategorySchema.Table),
		Posts:       repo.NewRepo[*Post](o, PostSchema.Table),
		Comments:    repo.NewRepo[*Comment](o, CommentSchema.Table),
		Attachments: repo.NewRepo[*Attachment](o, AttachmentSchema.Table),
		Users:       NewUserRepository(o),
	}
}
