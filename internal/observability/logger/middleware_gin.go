package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// GinMiddleware attaches a request-scoped logger carrying the request id
// and logs the request outcome.
func GinMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		reqLog := log.With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), reqLog))

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			fields = append(fields, zap.Error(lastErr.Err))
		}

		switch {
		case c.Writer.Status() >= 500:
			reqLog.Error("request failed", fields...)
		case c.Writer.Status() >= 400:
			reqLog.Warn("request rejected", fields...)
		default:
			reqLog.Info("request completed", fields...)
		}
	}
}
