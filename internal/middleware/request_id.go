package middleware

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gin-gonic/gin"
)

const (
	// ContextRequestIDKey is where the request id lives in the gin context.
	ContextRequestIDKey = "request_id"

	requestIDHeader = "X-Request-Id"
	requestIDBytes  = 12
)

// RequestID honors an incoming X-Request-Id so ids survive proxies, and
// mints one otherwise. The id is echoed back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = newRequestID()
		}
		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Set(ContextRequestIDKey, reqID)
		c.Next()
	}
}

func newRequestID() string {
	buf := make([]byte, requestIDBytes)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
