package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLen = 128
)

// RequestID is a Gin middleware that tags each request with an identifier.
//
// Behavior:
//   - Reuses an inbound X-Request-ID when it is short and printable, so a
//     dashboard call and the backend log line share one id.
//   - Otherwise generates a new UUID (v4).
//   - Stores it in the Gin context under "request_id" and echoes it in the
//     X-Request-ID response header.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID())
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
