// api/middleware/request_id.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID in both
// directions. Clients may supply their own; otherwise one is generated.
const RequestIDHeader = "X-Request-ID"

// ContextRequestIDKey is the gin context key holding the request ID.
const ContextRequestIDKey = "requestId"

// RequestID tags every request with a correlation ID and echoes it in the
// response so log lines and client reports can be matched up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		customLog.Debugf("Request %s %s id=%s", c.Request.Method, c.Request.URL.Path, id)
		c.Next()
	}
}
