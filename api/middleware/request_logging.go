package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"chat-session/logger"
	"chat-session/trace"
)

// RequestLogging 은 요청 진입부터 응답까지 걸린 시간을 로깅한다.
// 프롬프트가 담긴 요청 바디는 남기지 않는다.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		method := c.Request.Method
		queryParams := map[string][]string{}
		for key, values := range c.Request.URL.Query() {
			queryParams[key] = values
		}

		c.Next()

		ctx := c.Request.Context()
		fields := logger.Fields{
			"method":       method,
			"path":         path,
			"route":        c.FullPath(),
			"query_params": queryParams,
			"status":       c.Writer.Status(),
			"duration_ms":  time.Since(start).Milliseconds(),
			"request_id":   trace.RequestIDFromContext(ctx),
			"span_id":      trace.CurrentSpanID(ctx),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}
