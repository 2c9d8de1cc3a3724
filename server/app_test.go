package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"sndeals/config"
	"sndeals/domain/listing"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.Mode = "test"
	cfg.Database.DSN = ":memory:"
	cfg.Database.MaxOpenConns = 1
	cfg.Pagination.DefaultSize = 2
	cfg.Pagination.MaxSize = 5
	cfg.Events.Transport = "memory"

	app := NewAppWithConfig(cfg)
	require.NoError(t, app.LoadConfig())
	require.NoError(t, app.SetupDependencies(context.Background()))
	require.NoError(t, app.StartBackgroundTasks(context.Background()))
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestApp_PostLifecycle(t *testing.T) {
	app := newTestApp(t)
	h := app.Handler()

	rec := do(t, h, http.MethodPost, "/api/categories", map[string]any{"displayName": "Bikes", "internalId": "BIKE"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cat := decode[listing.CategoryDTO](t, rec)

	rec = do(t, h, http.MethodPost, "/api/posts", map[string]any{
		"title": "Road bike", "location": "Berlin", "status": "OPEN", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[listing.PostDTO](t, rec)
	assert.Equal(t, fmt.Sprintf("/api/posts/%d", post.ID), rec.Header().Get("Location"))
	assert.Equal(t, "sndealsApp.post.created", rec.Header().Get("X-Sndeals-Alert"))
	assert.Equal(t, "Bikes", post.CategoryDisplayName)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	post.Status = "CLOSED"
	rec = do(t, h, http.MethodPut, "/api/posts", post)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CLOSED", decode[listing.PostDTO](t, rec).Status)

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[map[string]string](t, rec)["code"])
}

func TestApp_WriteValidation(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/posts", map[string]any{"id": 3, "title": "x", "location": "y", "status": "OPEN"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode[map[string]string](t, rec)["code"])

	rec = do(t, h, http.MethodPut, "/api/posts", map[string]any{"title": "x", "location": "y", "status": "OPEN"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/posts", map[string]any{"id": 99, "title": "x", "location": "y", "status": "OPEN"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/comments", map[string]any{"comment": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[map[string]string](t, rec)["code"])

	rec = do(t, h, http.MethodPost, "/api/posts", map[string]any{"title": "x", "location": "y", "status": "OPEN", "categoryId": 404})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[map[string]string](t, rec)["code"])

	rec = do(t, h, http.MethodPost, "/api/attachments", map[string]any{"fileName": "a.png", "postId": 404})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/attachments/12", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/attachments/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApp_ListWithCriteriaAndPaging(t *testing.T) {
	app := newTestApp(t)
	h := app.Handler()

	var catID int64
	rec := do(t, h, http.MethodPost, "/api/categories", map[string]any{"displayName": "Furniture"})
	require.Equal(t, http.StatusCreated, rec.Code)
	catID = decode[listing.CategoryDTO](t, rec).ID

	for i, title := range []string{"Desk", "Chair", "Lamp", "Shelf", "Misc"} {
		body := map[string]any{"title": title, "location": "Berlin", "status": "OPEN"}
		if i < 4 {
			body["categoryId"] = catID
		}
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/posts", body).Code)
	}

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/posts?categoryId.equals=%d&number=2", catID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := decode[[]listing.PostDTO](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "Lamp", items[0].Title)
	assert.Equal(t, "Shelf", items[1].Title)
	assert.Equal(t, "4", rec.Header().Get("X-Total-Count"))
	link := rec.Header().Get("Link")
	assert.Contains(t, link, `rel="prev"`)
	assert.Contains(t, link, `rel="first"`)
	assert.NotContains(t, link, `rel="next"`)
	assert.True(t, strings.HasPrefix(link, "</api/posts?"))

	// page 为 0 起始
	rec = do(t, h, http.MethodGet, "/api/posts?page=0&size=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]listing.PostDTO](t, rec), 5)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/posts/count?categoryId=%d", catID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", strings.TrimSpace(rec.Body.String()))

	for _, bad := range []string{
		"/api/posts?size=6",
		"/api/posts?number=0",
		"/api/posts?title.contains=Desk",
		"/api/posts?color=red",
		"/api/posts?id=abc",
	} {
		rec = do(t, h, http.MethodGet, bad, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestApp_HealthAndMetrics(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])

	do(t, h, http.MethodGet, "/api/categories", nil)
	rec = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sndeals_query_total")
	assert.Contains(t, rec.Body.String(), "sndeals_http_requests_total")
}

func TestNewTransport(t *testing.T) {
	for _, tt := range []struct {
		cfg  config.EventsConfig
		want bool
	}{
		{config.EventsConfig{Transport: "none"}, false},
		{config.EventsConfig{Transport: "memory"}, true},
		{config.EventsConfig{Transport: "nats"}, true},
		{config.EventsConfig{Transport: "redis", Redis: config.RedisConfig{Addr: "127.0.0.1:6379"}}, true},
	} {
		tr, err := NewTransport(tt.cfg)
		require.NoError(t, err, tt.cfg.Transport)
		assert.Equal(t, tt.want, tr != nil, tt.cfg.Transport)
	}
}
