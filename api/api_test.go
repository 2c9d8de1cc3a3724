package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sndeals/errors"
)

func init() { gin.SetMode(gin.TestMode) }

func contextFor(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/posts?"+rawQuery, nil)
	return c
}

func TestParseWindow(t *testing.T) {
	cfg := &RouteConfig{DefaultPageSize: 20, MaxPageSize: 100}

	w, err := parseWindow(contextFor(""), cfg)
	require.NoError(t, err)
	assert.Equal(t, 20, w.Size)
	assert.Equal(t, 1, w.Number)

	w, err = parseWindow(contextFor("number=3&size=10"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, w.Number)
	assert.Equal(t, 10, w.Size)

	w, err = parseWindow(contextFor("page=0&size=5"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Number)

	for _, q := range []string{"size=101", "size=0", "number=0", "page=-1", "size=x", "number=1&page=0", "page=x", "number=92233720368547760&size=100", "page=9223372036854775807"} {
		_, err := parseWindow(contextFor(q), cfg)
		assert.True(t, errors.IsErrorCode(err, errors.ErrCodeInvalidPageWindow), q)
	}
}

func TestLinkHeader(t *testing.T) {
	u, _ := url.Parse("/api/posts?status=OPEN&page=1")
	link := linkHeader(u, 2, 10, 3)

	parts := strings.Split(link, ",")
	require.Len(t, parts, 4)
	assert.Equal(t, `</api/posts?number=3&size=10&status=OPEN>; rel="next"`, parts[0])
	assert.Equal(t, `</api/posts?number=1&size=10&status=OPEN>; rel="prev"`, parts[1])
	assert.Equal(t, `</api/posts?number=3&size=10&status=OPEN>; rel="last"`, parts[2])
	assert.Equal(t, `</api/posts?number=1&size=10&status=OPEN>; rel="first"`, parts[3])

	// 空结果仍给出 first/last
	link = linkHeader(u, 1, 10, 0)
	assert.Equal(t, 2, strings.Count(link, "rel="))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.ErrCodeInvalidCriteria))
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.ErrCodeInvalidPageWindow))
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.ErrCodeValidation))
	assert.Equal(t, http.StatusNotFound, StatusFor(errors.ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(errors.ErrCodeConflict))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.ErrCodeQueryExecutionFailed))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.ErrCodeDatabase))
}

func TestDefaultErrorHandler_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/posts", nil)

	DefaultErrorHandler(c, errors.WrapError(assert.AnError, errors.ErrCodeQueryExecutionFailed, "select failed"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":"QUERY_EXECUTION_FAILED","message":"internal server error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	DefaultErrorHandler(c, errors.NewError(errors.ErrCodeNotFound, "post 3 not found"))
	assert.JSONEq(t, `{"code":"NOT_FOUND","message":"post 3 not found"}`, rec.Body.String())
}

func TestRegister_RequiresBasePath(t *testing.T) {
	rb := &RouteBuilder[*dto]{config: DefaultRouteConfig(), service: fakeService{}, queries: fakeQueries{}}
	assert.Error(t, rb.Register(gin.New().Group("/api")))
}

func TestRouteBuilder_NullBodyRejected(t *testing.T) {
	router := gin.New()
	require.NoError(t, NewRouteBuilder[*dto](fakeService{}, fakeQueries{}).
		WithConfig(func(rc *RouteConfig) { rc.BasePath = "/things" }).
		Register(router.Group("/api")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/things", strings.NewReader("null")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/things", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/things/1", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/things", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
}
