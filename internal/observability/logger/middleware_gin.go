package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	obscontext "github.com/pedalroom/pedalroom/internal/observability/context"
)

const RequestIDHeader = "X-Request-ID"

// EnsureRequestID assigns a request id if the caller did not send one
// and propagates it via context and the response header.
func EnsureRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}

// ErrorClassifier maps a handler error to a log level bucket.
type ErrorClassifier func(err error) (clientError bool)

// RequestLogger logs each request with latency, status, and correlation
// fields. Client errors (4xx-style) log at warn, server failures at error.
func RequestLogger(classify ErrorClassifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log := FromContext(c.Request.Context())
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			fields = append(fields, zap.Error(err))
			if classify != nil && classify(err) {
				log.Warn("request failed", fields...)
			} else {
				log.Error("request failed", fields...)
			}
			return
		}

		// Health and metrics scrapes are noisy at info level.
		if path == "/health" || path == "/metrics" {
			log.Debug("request completed", fields...)
			return
		}

		log.Info("request completed", fields...)
	}
}
