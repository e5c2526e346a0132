// Package metrics 提供 Prometheus 指标的收集与暴露。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder 业务层使用的指标接口
type Recorder interface {
	RecordEntriesSaved(count int)
	RecordSignup()
}

// Collector Prometheus 指标实现
type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	entriesSaved prometheus.Counter
	signups      prometheus.Counter
}

// NewCollector 创建 Collector 并注册到指定 Registerer
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "按路由与状态码统计的 HTTP 请求数",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP 请求处理耗时（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		entriesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_planning_entries_saved_total",
			Help: "已保存的排期条目总数",
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_signups_total",
			Help: "注册成功的用户数",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.entriesSaved, c.signups)
	return c
}

// RecordRequest 记录一次 HTTP 请求
func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordEntriesSaved 记录保存的排期条目数
func (c *Collector) RecordEntriesSaved(count int) {
	c.entriesSaved.Add(float64(count))
}

// RecordSignup 记录一次注册
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// Handler 返回 Prometheus 抓取用的 HTTP Handler
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop 不记录任何指标，用于测试与命令行工具
type Nop struct{}

func (Nop) RecordEntriesSaved(int) {}
func (Nop) RecordSignup()          {}
