package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder 记录 HTTP 请求指标，*metrics.Collector 满足该接口
type RequestRecorder interface {
	RecordRequest(method, route string, status int, d time.Duration)
}

// Metrics 请求指标中间件
// 以路由模板（c.FullPath）为标签，避免路径参数造成标签爆炸
func Metrics(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		recorder.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
