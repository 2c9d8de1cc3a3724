package api

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"

	"sndeals/domain/entity"
	"sndeals/errors"
	"sndeals/query"
)

// IResourceService 资源写入与按 id 读取，crud.Service 满足该接口
type IResourceService[D any] interface {
	Name() string
	Create(ctx context.Context, dto D) (D, error)
	Update(ctx context.Context, dto D) (D, error)
	FindOne(ctx context.Context, id int64) (D, error)
	Delete(ctx context.Context, id int64) error
}

// IResourceQuery 条件查询，listing 的查询门面满足该接口
type IResourceQuery[D any] interface {
	Schema() *query.Schema
	FindPageByCriteria(ctx context.Context, c query.Criteria, w *query.PageWindow) (*query.Page[D], error)
	CountByCriteria(ctx context.Context, c query.Criteria) (int64, error)
}

// RouteBuilder 为一个资源注册 POST/PUT/GET/DELETE 路由
type RouteBuilder[D entity.IObject[int64]] struct {
	config      *RouteConfig
	service     IResourceService[D]
	queries     IResourceQuery[D]
	middlewares []gin.HandlerFunc
}

// NewRouteBuilder 创建路由构建器
func NewRouteBuilder[D entity.IObject[int64]](svc IResourceService[D], queries IResourceQuery[D]) *RouteBuilder[D] {
	return &RouteBuilder[D]{config: DefaultRouteConfig(), service: svc, queries: queries}
}

// WithConfig 配置路由行为
func (rb *RouteBuilder[D]) WithConfig(fn func(*RouteConfig)) *RouteBuilder[D] {
	fn(rb.config)
	return rb
}

// Use 注册资源级中间件
func (rb *RouteBuilder[D]) Use(middlewares ...gin.HandlerFunc) *RouteBuilder[D] {
	rb.middlewares = append(rb.middlewares, middlewares...)
	return rb
}

// Register 注册到路由组
func (rb *RouteBuilder[D]) Register(group *gin.RouterGroup) error {
	if rb.service == nil || rb.queries == nil {
		return fmt.Errorf("service and queries cannot be nil")
	}
	if rb.config.BasePath == "" {
		return fmt.Errorf("base path for %s is required", rb.service.Name())
	}
	g := group.Group(rb.config.BasePath, rb.middlewares...)

	g.POST("", rb.handleCreate)
	g.PUT("", rb.handleUpdate)
	g.GET("", rb.handleList)
	g.GET("/count", rb.handleCount)
	g.GET("/:id", rb.handleGet)
	g.DELETE("/:id", rb.handleDelete)
	return nil
}

func (rb *RouteBuilder[D]) fail(c *gin.Context, err error) {
	h := rb.config.ErrorHandler
	if h == nil {
		h = DefaultErrorHandler
	}
	h(c, err)
}

func (rb *RouteBuilder[D]) alert(c *gin.Context, action string, id int64) {
	c.Header("X-Sndeals-Alert", fmt.Sprintf("%s.%s.%s", rb.config.AlertPrefix, rb.service.Name(), action))
	c.Header("X-Sndeals-Params", strconv.FormatInt(id, 10))
}

func (rb *RouteBuilder[D]) bind(c *gin.Context) (D, error) {
	var dto D
	if err := c.ShouldBindJSON(&dto); err != nil {
		return dto, errors.NewError(errors.ErrCodeInvalidInput, "无效的请求数据")
	}
	if v := reflect.ValueOf(dto); !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return dto, errors.NewError(errors.ErrCodeInvalidInput, "请求体不能为空")
	}
	return dto, nil
}

func (rb *RouteBuilder[D]) handleCreate(c *gin.Context) {
	dto, err := rb.bind(c)
	if err != nil {
		rb.fail(c, err)
		return
	}
	created, err := rb.service.Create(c.Request.Context(), dto)
	if err != nil {
		rb.fail(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("%s/%d", c.Request.URL.Path, created.GetID()))
	rb.alert(c, "created", created.GetID())
	c.JSON(http.StatusCreated, created)
}

func (rb *RouteBuilder[D]) handleUpdate(c *gin.Context) {
	dto, err := rb.bind(c)
	if err != nil {
		rb.fail(c, err)
		return
	}
	updated, err := rb.service.Update(c.Request.Context(), dto)
	if err != nil {
		rb.fail(c, err)
		return
	}
	rb.alert(c, "updated", updated.GetID())
	c.JSON(http.StatusOK, updated)
}

func (rb *RouteBuilder[D]) handleList(c *gin.Context) {
	criteria, err := query.ParseValues(rb.queries.Schema(), c.Request.URL.Query())
	if err != nil {
		rb.fail(c, err)
		return
	}
	w, err := parseWindow(c, rb.config)
	if err != nil {
		rb.fail(c, err)
		return
	}
	page, err := rb.queries.FindPageByCriteria(c.Request.Context(), criteria, w)
	if err != nil {
		rb.fail(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.FormatInt(page.Total, 10))
	c.Header("Link", linkHeader(c.Request.URL, page.Number, page.Size, page.TotalPages))
	c.JSON(http.StatusOK, page.Items)
}

func (rb *RouteBuilder[D]) handleCount(c *gin.Context) {
	criteria, err := query.ParseValues(rb.queries.Schema(), c.Request.URL.Query())
	if err != nil {
		rb.fail(c, err)
		return
	}
	n, err := rb.queries.CountByCriteria(c.Request.Context(), criteria)
	if err != nil {
		rb.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (rb *RouteBuilder[D]) handleGet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		rb.fail(c, err)
		return
	}
	dto, err := rb.service.FindOne(c.Request.Context(), id)
	if err != nil {
		rb.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (rb *RouteBuilder[D]) handleDelete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		rb.fail(c, err)
		return
	}
	if err := rb.service.Delete(c.Request.Context(), id); err != nil {
		rb.fail(c, err)
		return
	}
	rb.alert(c, "deleted", id)
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewError(errors.ErrCodeInvalidInput, "无效的ID格式")
	}
	return id, nil
}
