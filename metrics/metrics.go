// Package metrics 定义进程级 Prometheus 指标。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QueryTotal 条件查询执行次数，按实体、操作与结果分类
	QueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sndeals_query_total",
			Help: "Total number of criteria queries executed",
		},
		[]string{"entity", "op", "status"},
	)
	// QueryDuration 条件查询耗时
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sndeals_query_duration_seconds",
			Help:    "Criteria query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity", "op"},
	)
	// RequestTotal HTTP 请求计数
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sndeals_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration HTTP 请求耗时
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sndeals_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// EventsPublished 领域事件发布计数
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sndeals_events_published_total",
			Help: "Total number of domain events handed to the publisher",
		},
		[]string{"type", "status"},
	)
)

// ObserveQuery 记录一次查询的结果与耗时
func ObserveQuery(entity, op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	QueryTotal.WithLabelValues(entity, op, status).Inc()
	QueryDuration.WithLabelValues(entity, op).Observe(time.Since(start).Seconds())
}

// ObservePublish 记录一次事件发布
func ObservePublish(eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublished.WithLabelValues(eventType, status).Inc()
}

// Middleware 以路由模板为 path 标签记录请求，避免 ID 造成标签爆炸
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
