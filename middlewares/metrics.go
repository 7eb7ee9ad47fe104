package middlewares

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VARUN1128/Dial-AI/metrics"
)

func GinMetricsMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		duration := time.Since(start).Seconds()
		endpoint := ctx.FullPath()
		method := ctx.Request.Method
		statusCode := ctx.Writer.Status()
		status := fmt.Sprintf("%d", statusCode)
		metrics.HttpRequestsTotal.WithLabelValues(endpoint, status, method).Inc()
		metrics.HttpRequestDuration.WithLabelValues(endpoint, method).Observe(duration)
		if statusCode >= 400 && statusCode < 600 {
			metrics.HttpErrorsTotal.WithLabelValues(endpoint, status, method).Inc()
		}
	}
}
