package middleware

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/go-taken/ocr-api/internal/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// WithRequestID reuses the caller's X-Request-ID or assigns a new one.
func WithRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestID returns the id assigned by WithRequestID.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// WithLogger stores a request scoped logger in the request context and writes
// one access entry per request once the handlers have run.
func WithLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := logger.WithField("request_id", RequestID(c))
		c.Request = c.Request.WithContext(logging.NewContext(c.Request.Context(), reqLog))

		c.Next()

		status := c.Writer.Status()
		entry := reqLog.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"bytes_in":   c.Request.ContentLength,
			"bytes_out":  c.Writer.Size(),
			"user_agent": c.Request.UserAgent(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// Logger returns the request scoped logger, or a discarding logger when
// WithLogger is not installed.
func Logger(c *gin.Context) logrus.FieldLogger {
	if c.Request == nil {
		return logging.Discard()
	}
	return logging.FromContext(c.Request.Context(), nil)
}

// WithRecovery turns a panic anywhere in the chain into a 500 JSON response.
func WithRecovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		Logger(c).WithField("panic", recovered).Error("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprint(recovered),
		})
	})
}
