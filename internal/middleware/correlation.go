package middleware

import (
	"github.com/gin-gonic/gin"

	"sql-converter/internal/utils"
)

const (
	CorrelationIDKey    = "correlation_id"
	CorrelationIDHeader = "X-Correlation-ID"
)

// CorrelationID echoes the caller's X-Correlation-ID or assigns a new UUID,
// exposing it on the gin context and the response.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := utils.NormalizeCorrelationID(c.GetHeader(CorrelationIDHeader))

		c.Set(CorrelationIDKey, correlationID)
		c.Header(CorrelationIDHeader, correlationID)

		c.Next()
	}
}

// GetCorrelationID returns the correlation ID set by CorrelationID, or ""
func GetCorrelationID(c *gin.Context) string {
	if id, ok := c.Get(CorrelationIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
