package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pedalroom/pedalroom/internal/observability/logger"
)

// CartTokenHeader carries the opaque cart token the storefront keeps
// client-side. An absent header means "no cart yet".
const CartTokenHeader = "X-Cart-Token"

func cartToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(CartTokenHeader))
}

// PreviewRateLimit throttles the anonymous preview endpoints per client
// address. A nil limiter disables throttling entirely.
func (s *Server) PreviewRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.previewLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := c.FullPath()

		result, err := s.previewLimiter.Allow(ctx, c.ClientIP())
		if err != nil {
			// Redis being down must not take the preview path with it.
			logger.FromContext(ctx).Warn("preview rate limit check failed", zap.Error(err))
			s.obsMetrics.RecordRateLimitAllowed(ctx, endpoint)
			c.Next()
			return
		}

		if !result.Allowed {
			s.obsMetrics.RecordRateLimitDenied(ctx, endpoint, "rate_exceeded")
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Error: errorPayload{
					Type:    "rate_limited",
					Message: "too many preview requests",
				},
			})
			return
		}

		s.obsMetrics.RecordRateLimitAllowed(ctx, endpoint)
		c.Next()
	}
}
