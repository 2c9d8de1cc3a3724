package server

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sndeals/data/orm"
	"sndeals/domain/listing"
	"sndeals/errors"
	"sndeals/logging"
	"sndeals/messaging"
)

// Fixtures 种子数据文件。帖子通过 category 引用分类的 internalId，
// 评论与附件通过 post 引用帖子标题；引用在写入时解析为主键
type Fixtures struct {
	Categories  []listing.CategoryDTO `yaml:"categories"`
	Posts       []PostFixture         `yaml:"posts"`
	Comments    []CommentFixture      `yaml:"comments"`
	Attachments []AttachmentFixture   `yaml:"attachments"`
	Users       []UserFixture         `yaml:"users"`
}

type PostFixture struct {
	listing.PostDTO `yaml:",inline"`
	Category        string `yaml:"category"`
}

type CommentFixture struct {
	listing.CommentDTO `yaml:",inline"`
	Post               string `yaml:"post"`
}

type AttachmentFixture struct {
	listing.AttachmentDTO `yaml:",inline"`
	Post                  string `yaml:"post"`
}

type UserFixture struct {
	Login     string `yaml:"login"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Activated bool   `yaml:"activated"`
}

// SeedReport 各类实体写入数量
type SeedReport struct {
	Categories, Posts, Comments, Attachments, Users int
}

func (r SeedReport) String() string {
	return fmt.Sprintf("categories=%d posts=%d comments=%d attachments=%d users=%d",
		r.Categories, r.Posts, r.Comments, r.Attachments, r.Users)
}

// LoadFixtures 读取 YAML 种子文件
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return &fx, nil
}

// Seed 在一个事务内写入全部种子数据，任一条失败则整体回滚。
// 写入经过 CRUD 服务，与 REST 写入共用校验；种子数据不发布事件
func Seed(ctx context.Context, o orm.IOrm, fx *Fixtures) (SeedReport, error) {
	session, err := o.Begin(ctx)
	if err != nil {
		return SeedReport{}, errors.WrapError(err, errors.ErrCodeDatabase, "begin seed transaction")
	}
	report, err := seed(ctx, NewServices(session, messaging.NopPublisher{}), fx)
	if err != nil {
		if rbErr := session.Rollback(); rbErr != nil {
			logging.ComponentLogger("seed").Error(ctx, "rollback failed", logging.Error(rbErr))
		}
		return SeedReport{}, err
	}
	if err := session.Commit(); err != nil {
		return SeedReport{}, errors.WrapError(err, errors.ErrCodeDatabase, "commit seed transaction")
	}
	logging.ComponentLogger("seed").Info(ctx, "fixtures seeded", logging.String("report", report.String()))
	return report, nil
}

// seed 按依赖顺序写入：分类、帖子、评论、附件、用户
func seed(ctx context.Context, svc *Services, fx *Fixtures) (SeedReport, error) {
	var report SeedReport

	categories := make(map[string]int64, len(fx.Categories))
	for i := range fx.Categories {
		c, err := svc.Categories.Create(ctx, &fx.Categories[i])
		if err != nil {
			return report, fmt.Errorf("category %q: %w", fx.Categories[i].DisplayName, err)
		}
		if c.InternalID != "" {
			categories[c.InternalID] = c.ID
		}
		report.Categories++
	}

	posts := make(map[string]int64, len(fx.Posts))
	for i := range fx.Posts {
		p := &fx.Posts[i]
		if p.Category != "" {
			id, ok := categories[p.Category]
			if !ok {
				return report, errors.Newf(errors.ErrCodeInvalidInput, "post %q references unknown category %q", p.Title, p.Category)
			}
			p.CategoryID = &id
		}
		created, err := svc.Posts.Create(ctx, &p.PostDTO)
		if err != nil {
			return report, fmt.Errorf("post %q: %w", p.Title, err)
		}
		posts[created.Title] = created.ID
		report.Posts++
	}

	postRef := func(kind, title string) (*int64, error) {
		if title == "" {
			return nil, nil
		}
		id, ok := posts[title]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidInput, "%s references unknown post %q", kind, title)
		}
		return &id, nil
	}

	for i := range fx.Comments {
		c := &fx.Comments[i]
		ref, err := postRef("comment", c.Post)
		if err != nil {
			return report, err
		}
		if ref != nil {
			c.PostID = ref
		}
		if _, err := svc.Comments.Create(ctx, &c.CommentDTO); err != nil {
			return report, fmt.Errorf("comment %d: %w", i, err)
		}
		report.Comments++
	}

	for i := range fx.Attachments {
		a := &fx.Attachments[i]
		ref, err := postRef("attachment", a.Post)
		if err != nil {
			return report, err
		}
		if ref != nil {
			a.PostID = ref
		}
		if _, err := svc.Attachments.Create(ctx, &a.AttachmentDTO); err != nil {
			return report, fmt.Errorf("attachment %q: %w", a.FileName, err)
		}
		report.Attachments++
	}

	for _, u := range fx.Users {
		err := svc.Repos.Users.Create(ctx, &listing.User{
			Login:     u.Login,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Activated: u.Activated,
		})
		if err != nil {
			return report, fmt.Errorf("user %q: %w", u.Login, err)
		}
		report.Users++
	}

	return report, nil
}
