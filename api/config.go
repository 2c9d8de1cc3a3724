// Package api 基于 gin 注册实体资源的 REST 路由
package api

import "github.com/gin-gonic/gin"

// RouteConfig 路由配置
type RouteConfig struct {
	// BasePath 资源路径，例如 /posts
	BasePath string

	// 分页参数：size 缺省时使用 DefaultPageSize，超过 MaxPageSize 返回 400
	DefaultPageSize int
	MaxPageSize     int

	// AlertPrefix 写操作响应头 X-Sndeals-Alert 的前缀
	AlertPrefix string

	// ErrorHandler 自定义错误输出
	ErrorHandler func(c *gin.Context, err error)
}

// DefaultRouteConfig 默认路由配置
func DefaultRouteConfig() *RouteConfig {
	return &RouteConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		AlertPrefix:     "sndealsApp",
		ErrorHandler:    DefaultErrorHandler,
	}
}
