package crud_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	core "sndeals/data/db"
	"sndeals/data/db/basic"
	ormbasic "sndeals/data/orm/basic"
	"sndeals/domain/crud"
	"sndeals/domain/listing"
	"sndeals/errors"
	"sndeals/messaging"
	"sndeals/messaging/transport/memory"
	"sndeals/query"
	"sndeals/storage/migrations"
)

type recorder struct {
	mu    sync.Mutex
	types []string
}

func (r *recorder) Handle(ctx context.Context, m messaging.IMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, m.GetType())
	return nil
}

func (r *recorder) Type() string { return "recorder" }

func newPostService(t *testing.T) (*crud.Service[*listing.Post, *listing.PostDTO], *listing.Repositories, *memory.MemoryTransport, *recorder) {
	t.Helper()
	db, err := basic.New(core.DBConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	runner, err := migrations.New(db.SQLDB(), "sqlite")
	require.NoError(t, err)
	require.NoError(t, runner.Up())

	repos := listing.NewRepositories(ormbasic.New(db))
	transport := memory.NewMemoryTransport(16, 1)
	rec := &recorder{}
	require.NoError(t, transport.Subscribe("*", rec))
	require.NoError(t, transport.Start(context.Background()))

	svc := crud.NewService[*listing.Post, *listing.PostDTO](
		"post",
		repos.Posts,
		listing.PostMapper{Categories: repos.Categories},
		listing.NewPostQueryService(repos),
		transport,
	)
	return svc, repos, transport, rec
}

func TestService_Lifecycle(t *testing.T) {
	svc, repos, transport, rec := newPostService(t)
	ctx := context.Background()

	cat := &listing.Category{DisplayName: "Bikes"}
	require.NoError(t, repos.Categories.Create(ctx, cat))

	created, err := svc.Create(ctx, &listing.PostDTO{Title: "Bike", Location: "Berlin", Status: "OPEN", CategoryID: &cat.ID})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Bikes", created.CategoryDisplayName)

	created.Status = "CLOSED"
	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", updated.Status)

	found, err := svc.FindOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", found.Status)

	page, err := svc.FindAll(ctx, &query.PageWindow{Size: 10, Number: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.FindOne(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, transport.Close())
	assert.Equal(t, []string{"post.created", "post.updated", "post.deleted"}, rec.types)
}

func TestService_RejectsIDRules(t *testing.T) {
	svc, _, transport, rec := newPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &listing.PostDTO{ID: 5, Title: "x", Location: "y", Status: "OPEN"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeInvalidInput))

	_, err = svc.Update(ctx, &listing.PostDTO{Title: "x", Location: "y", Status: "OPEN"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeInvalidInput))

	_, err = svc.Update(ctx, &listing.PostDTO{ID: 404, Title: "x", Location: "y", Status: "OPEN"})
	assert.True(t, errors.IsNotFound(err))

	assert.True(t, errors.IsNotFound(svc.Delete(ctx, 404)))

	_, err = svc.Create(ctx, &listing.PostDTO{Location: "y", Status: "OPEN"})
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, transport.Close())
	assert.Empty(t, rec.types)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, messaging.IMessage) error {
	return errors.NewError(errors.ErrCodeQueue, "queue down")
}
func (failingPublisher) Close() error { return nil }

func TestService_PublishFailureDoesNotFailWrite(t *testing.T) {
	_, repos, _, _ := newPostService(t)
	svc := crud.NewService[*listing.Category, *listing.CategoryDTO](
		"category", repos.Categories, listing.CategoryMapper{}, listing.NewCategoryQueryService(repos), failingPublisher{})

	dto, err := svc.Create(context.Background(), &listing.CategoryDTO{DisplayName: "Books"})
	require.NoError(t, err)
	assert.NotZero(t, dto.ID)
	assert.Equal(t, "category", svc.Name())
}

func TestService_RejectsMissingReference(t *testing.T) {
	svc, repos, transport, rec := newPostService(t)
	ctx := context.Background()

	missing := int64(404)
	_, err := svc.Create(ctx, &listing.PostDTO{Title: "x", Location: "y", Status: "OPEN", CategoryID: &missing})
	assert.True(t, errors.IsValidation(err))

	n, err := repos.Posts.ListByIds(ctx, []int64{1})
	require.NoError(t, err)
	assert.Empty(t, n)

	require.NoError(t, transport.Close())
	assert.Empty(t, rec.types)
}
