package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sndeals/api"
	"sndeals/config"
	"sndeals/domain/listing"
	"sndeals/logging"
	"sndeals/metrics"
)

// HealthCheck 健康检查，通常是数据库 Ping
type HealthCheck func(ctx context.Context) error

// NewRouter 注册 /api 资源路由、/healthz 与 /metrics
func NewRouter(mode string, pagination config.PaginationConfig, svc *Services, health HealthCheck) (*gin.Engine, error) {
	gin.SetMode(mode)
	router := gin.New()
	router.Use(gin.Recovery(), metrics.Middleware(), api.RequestLogger(logging.ComponentLogger("http")))

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if health != nil {
			if err := health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	group := router.Group("/api")
	paging := func(path string) func(*api.RouteConfig) {
		return func(rc *api.RouteConfig) {
			rc.BasePath = path
			rc.DefaultPageSize = pagination.DefaultSize
			rc.MaxPageSize = pagination.MaxSize
		}
	}
	registrars := []interface{ Register(*gin.RouterGroup) error }{
		api.NewRouteBuilder[*listing.PostDTO](svc.Posts, svc.PostQueries).WithConfig(paging("/posts")),
		api.NewRouteBuilder[*listing.CategoryDTO](svc.Categories, svc.CategoryQueries).WithConfig(paging("/categories")),
		api.NewRouteBuilder[*listing.CommentDTO](svc.Comments, svc.CommentQueries).WithConfig(paging("/comments")),
		api.NewRouteBuilder[*listing.AttachmentDTO](svc.Attachments, svc.AttachmentQueries).WithConfig(paging("/attachments")),
	}
	for _, r := range registrars {
		if err := r.Register(group); err != nil {
			return nil, err
		}
	}
	return router, nil
}
