package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/obsd/support-relay/common/logger"
)

// Recovery turns a handler panic into a 500. Slack redelivers on 5xx, and the retry is
// acknowledged by SlackRetry, so a panicking event is dropped after one attempt.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{Component: "relay.http.recovery"})

			slog.ErrorContext(ctx, "panic recovered",
				"panic", rec,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"slack_retry_num", c.GetHeader(SlackRetryHeader),
				"stack", string(debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}()
		c.Next()
	}
}
