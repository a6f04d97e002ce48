package middleware

import (
	"github.com/gin-gonic/gin"

	"chat-session/httpclient"
	"chat-session/trace"
)

// RequestTrace는 모든 inbound HTTP 요청에 대해 Request ID와 Span ID를 보장하고,
// 이를 컨텍스트/헤더에 저장한다. 이후 LLM 호출은 같은 Request ID 로 span 을 이어 붙인다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request

		requestID := req.Header.Get(httpclient.HeaderRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		// inbound 요청은 span_id=0, outbound 호출은 1,2,3,... 로 증가
		ctxWithTrace := trace.WithRequestAndSpan(req.Context(), requestID, 0)
		c.Request = req.WithContext(ctxWithTrace)

		currentSpan := trace.CurrentSpanID(ctxWithTrace)
		c.Request.Header.Set(httpclient.HeaderRequestID, requestID)
		c.Request.Header.Set(httpclient.HeaderSpanID, currentSpan)
		c.Writer.Header().Set(httpclient.HeaderRequestID, requestID)
		c.Writer.Header().Set(httpclient.HeaderSpanID, currentSpan)

		c.Next()
	}
}
