package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"sndeals/config"
	"sndeals/data/orm"
	ormbasic "sndeals/data/orm/basic"
	"sndeals/domain/listing"
	"sndeals/errors"
	"sndeals/messaging"
	"sndeals/query"
)

const fixturesYAML = `
categories:
  - internalId: housing
    displayName: Housing
  - internalId: bikes
    displayName: Bikes
posts:
  - title: Room in Berlin
    location: Berlin
    status: OPEN
    category: housing
  - title: Road bike
    location: London
    status: OPEN
    category: bikes
  - title: Free books
    location: London
    status: CLOSED
comments:
  - comment: still available?
    post: Room in Berlin
attachments:
  - fileName: photo.png
    contentContentType: image/png
    content: !!binary aGVsbG8=
    post: Road bike
users:
  - login: JDoe
    email: JDoe@nature.com
    firstName: Jane
    activated: true
`

func newSeedOrm(t *testing.T) orm.IOrm {
	t.Helper()
	db, err := OpenDatabase(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1}, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return ormbasic.New(db)
}

func writeFixtures(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	o := newSeedOrm(t)
	svc := NewServices(o, messaging.NopPublisher{})

	fx, err := LoadFixtures(writeFixtures(t, fixturesYAML))
	require.NoError(t, err)

	report, err := Seed(ctx, o, fx)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{Categories: 2, Posts: 3, Comments: 1, Attachments: 1, Users: 1}, report)

	housing := int64(1)
	posts, err := svc.PostQueries.FindByCriteria(ctx, &listing.PostCriteria{CategoryID: query.Eq(housing)})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Room in Berlin", posts[0].Title)
	assert.Equal(t, "Housing", posts[0].CategoryDisplayName)

	comments, err := svc.CommentQueries.FindByCriteria(ctx, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Room in Berlin", comments[0].PostTitle)

	attachments, err := svc.AttachmentQueries.FindByCriteria(ctx, nil)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, []byte("hello"), attachments[0].Content)

	u, err := svc.Repos.Users.FindOneByLogin(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe@nature.com", u.Email)
}

func TestSeed_RollsBackOnUnknownReference(t *testing.T) {
	o := newSeedOrm(t)
	fx, err := LoadFixtures(writeFixtures(t, `
categories:
  - internalId: housing
    displayName: Housing
posts:
  - title: Orphan
    location: Paris
    status: OPEN
    category: missing
`))
	require.NoError(t, err)

	report, err := Seed(context.Background(), o, fx)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeInvalidInput))
	assert.Zero(t, report)

	n, err := NewServices(o, messaging.NopPublisher{}).CategoryQueries.CountByCriteria(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadFixtures_Invalid(t *testing.T) {
	_, err := LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFixtures(writeFixtures(t, "posts: {not: [a list"))
	assert.Error(t, err)
}
