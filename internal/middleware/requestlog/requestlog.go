// Package requestlog provides middleware that logs every request
package requestlog

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/election-portal/internal/logger"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
)

// New returns a middleware function that logs request details. Incoming
// request ids are kept, otherwise a new one is generated.
func New() gin.HandlerFunc {
	l := logger.HTTP()

	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(requestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		l.Debug("Request started",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()

		l.Log(levelFor(status), "Request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", latency,
			"size", c.Writer.Size(),
		)
	}
}

// RequestID returns the id assigned to the current request.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func levelFor(status int) log.Level {
	switch {
	case status >= 500:
		return log.ErrorLevel
	case status >= 400:
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}

// generateRequestID creates a request ID for tracing
func generateRequestID() string {
	return "req_" + uuid.NewString()
}
