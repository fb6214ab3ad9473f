package api

import (
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogMiddleware 请求日志中间件
// 认证通过的请求额外记录操作者标识,指标按路由模板聚合避免 ID 散点
func RequestLogMiddleware() gin.HandlerFunc {
	logger := GetLogger()

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		requestID := c.GetString("request_id")

		// 指标用路由模板(/api/v1/processes/:id)而非原始路径
		route := c.FullPath()
		if route == "" {
			route = path
		}
		metrics.RecordAPIRequest(method, route, status, latency.Seconds())

		// 使用结构化日志记录请求信息
		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     method,
			"path":       path,
			"status":     status,
			"latency":    latency.String(),
			"ip":         c.ClientIP(),
		})
		if actor, ok := auth.ActorFromContext(c); ok {
			entry = entry.WithField("actor", actor.Identifier)
		}

		// 根据状态码选择日志级别
		if status >= 500 {
			entry.Error("API request")
		} else if status >= 400 {
			entry.Warn("API request")
		} else {
			entry.Info("API request")
		}
	}
}
