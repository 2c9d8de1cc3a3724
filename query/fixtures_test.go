package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	core "sndeals/data/db"
	"sndeals/data/db/basic"
	"sndeals/data/orm"
	ormbasic "sndeals/data/orm/basic"
)

type category struct {
	ID          int64  `db:"id" orm:"primaryKey;autoIncrement"`
	DisplayName string `db:"display_name"`
}

type post struct {
	ID         int64  `db:"id" orm:"primaryKey;autoIncrement"`
	Title      string `db:"title"`
	Status     string `db:"status"`
	CategoryID *int64 `db:"category_id"`
}

type comment struct {
	ID     int64  `db:"id" orm:"primaryKey;autoIncrement"`
	Text   string `db:"comment"`
	PostID *int64 `db:"post_id"`
}

type attachment struct {
	ID       int64  `db:"id" orm:"primaryKey;autoIncrement"`
	FileName string `db:"file_name"`
	PostID   *int64 `db:"post_id"`
}

var postSchema = &Schema{
	Name:  "post",
	Table: "post",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: KindInt64},
		{Name: "title", Column: "title", Kind: KindString},
		{Name: "status", Column: "status", Kind: KindString},
		{Name: "categoryId", Column: "category_id", Kind: KindInt64},
	},
	Parent: &Parent{Field: "categoryId", Column: "category_id", Table: "category", RefColumn: "id"},
}

var commentSchema = &Schema{
	Name:  "comment",
	Table: "comment",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: KindInt64},
		{Name: "comment", Column: "comment", Kind: KindString},
		{Name: "postId", Column: "post_id", Kind: KindInt64},
	},
	Parent: &Parent{Field: "postId", Column: "post_id", Table: "post", RefColumn: "id"},
}

var attachmentSchema = &Schema{
	Name:  "attachment",
	Table: "resource",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: KindInt64},
		{Name: "fileName", Column: "file_name", Kind: KindString},
		{Name: "postId", Column: "post_id", Kind: KindInt64},
	},
	Parent: &Parent{Field: "postId", Column: "post_id", Table: "post", RefColumn: "id"},
}

var categorySchema = &Schema{
	Name:  "category",
	Table: "category",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: KindInt64},
		{Name: "displayName", Column: "display_name", Kind: KindString},
	},
}

type fixture struct {
	orm         *ormbasic.Orm
	categories  []*category
	posts       []*post
	comments    []*comment
	attachments []*attachment
}

func (f *fixture) model(table string) orm.IModel {
	return f.orm.Model(&orm.ModelMeta{Table: table})
}

func ptr(v int64) *int64 { return &v }

// newFixture 两个分类、五个帖子（其中一个无分类）、五条评论、三个附件
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := basic.New(core.DBConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.ExecDDL(ctx,
		`CREATE TABLE category (id INTEGER PRIMARY KEY AUTOINCREMENT, display_name TEXT NOT NULL DEFAULT '')`,
		`CREATE TABLE post (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL DEFAULT '', status TEXT NOT NULL DEFAULT '', category_id INTEGER REFERENCES category(id))`,
		`CREATE TABLE comment (id INTEGER PRIMARY KEY AUTOINCREMENT, comment TEXT NOT NULL DEFAULT '', post_id INTEGER REFERENCES post(id))`,
		`CREATE TABLE resource (id INTEGER PRIMARY KEY AUTOINCREMENT, file_name TEXT NOT NULL DEFAULT '', post_id INTEGER REFERENCES post(id))`,
	))

	f := &fixture{orm: ormbasic.New(db)}
	create := func(table string, e any) {
		require.NoError(t, f.model(table).Create(ctx, e))
	}

	for _, name := range []string{"Furniture", "Bikes"} {
		c := &category{DisplayName: name}
		create("category", c)
		f.categories = append(f.categories, c)
	}
	furniture, bikes := f.categories[0].ID, f.categories[1].ID

	for _, p := range []*post{
		{Title: "Desk", Status: "OPEN", CategoryID: &furniture},
		{Title: "Chair", Status: "OPEN", CategoryID: &furniture},
		{Title: "Lamp", Status: "CLOSED", CategoryID: &furniture},
		{Title: "Road bike", Status: "OPEN", CategoryID: &bikes},
		{Title: "Misc", Status: "OPEN"},
	} {
		create("post", p)
		f.posts = append(f.posts, p)
	}

	for i, postIdx := range []int{2, 2, 2, 2, 0} {
		c := &comment{Text: "comment " + string(rune('a'+i)), PostID: ptr(f.posts[postIdx].ID)}
		create("comment", c)
		f.comments = append(f.comments, c)
	}

	for _, a := range []*attachment{
		{FileName: "invoice.pdf", PostID: ptr(f.posts[0].ID)},
		{FileName: "photo.jpg", PostID: ptr(f.posts[0].ID)},
		{FileName: "manual.pdf"},
	} {
		create("resource", a)
		f.attachments = append(f.attachments, a)
	}
	return f
}
