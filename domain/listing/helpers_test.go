package listing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	core "sndeals/data/db"
	"sndeals/data/db/basic"
	ormbasic "sndeals/data/orm/basic"
	"sndeals/storage/migrations"
)

func int64p(v int64) *int64 { return &v }

func newRepositories(t *testing.T) *Repositories {
	t.Helper()
	db, err := basic.New(core.DBConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	runner, err := migrations.New(db.SQLDB(), "sqlite")
	require.NoError(t, err)
	require.NoError(t, runner.Up())
	return NewRepositories(ormbasic.New(db))
}

type seeded struct {
	furniture, bikes *Category
	desk, chair, bike *Post
	orphan            *Post
}

// seed 两个分类、四个帖子（orphan 无分类）、三条评论、两个附件
func seed(t *testing.T, r *Repositories) seeded {
	t.Helper()
	ctx := context.Background()
	s := seeded{
		furniture: &Category{InternalID: "FURN", DisplayName: "Furniture"},
		bikes:     &Category{InternalID: "BIKE", DisplayName: "Bikes"},
	}
	require.NoError(t, r.Categories.Create(ctx, s.furniture))
	require.NoError(t, r.Categories.Create(ctx, s.bikes))

	s.desk = &Post{Title: "Desk", Location: "Berlin", Status: "OPEN", CreatedBy: "alice", CategoryID: int64p(s.furniture.ID)}
	s.chair = &Post{Title: "Chair", Location: "London", Status: "OPEN", CreatedBy: "bob", CategoryID: int64p(s.furniture.ID)}
	s.bike = &Post{Title: "Road bike", Location: "Berlin", Status: "CLOSED", CreatedBy: "alice", CategoryID: int64p(s.bikes.ID)}
	s.orphan = &Post{Title: "Misc", Location: "Paris", Status: "OPEN", CreatedBy: "carol"}
	for _, p := range []*Post{s.desk, s.chair, s.bike, s.orphan} {
		require.NoError(t, r.Posts.Create(ctx, p))
	}

	for _, c := range []*Comment{
		{Comment: "still available?", PostID: int64p(s.desk.ID)},
		{Comment: "price?", PostID: int64p(s.desk.ID)},
		{Comment: "nice", PostID: int64p(s.bike.ID)},
	} {
		require.NoError(t, r.Comments.Create(ctx, c))
	}
	for _, a := range []*Attachment{
		{FileName: "desk.jpg", Content: []byte{1, 2, 3}, ContentContentType: "image/jpeg", PostID: int64p(s.desk.ID)},
		{FileName: "bike.png", Content: []byte{4}, ContentContentType: "image/png", PostID: int64p(s.bike.ID)},
	} {
		require.NoError(t, r.Attachments.Create(ctx, a))
	}
	return s
}
