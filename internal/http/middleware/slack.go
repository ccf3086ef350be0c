package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
)

const (
	SlackRetryHeader = "X-Slack-Retry-Num"

	// maxSlackBody is well above any Events API or interaction payload.
	maxSlackBody = 1 << 20
)

// SlackRetry acknowledges platform redeliveries without reading the body.
// The first delivery is already being processed.
func SlackRetry() gin.HandlerFunc {
	return func(c *gin.Context) {
		if retry := c.GetHeader(SlackRetryHeader); retry != "" {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		c.Next()
	}
}

// SlackSignature verifies X-Slack-Signature against the signing secret and leaves the body
// readable for the handler. An empty secret disables verification.
func SlackSignature(signingSecret string) gin.HandlerFunc {
	if signingSecret == "" {
		slog.Warn("slack signing secret not configured, request signatures will not be verified")
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		verifier, err := slack.NewSecretsVerifier(c.Request.Header, signingSecret)
		if err != nil {
			slog.WarnContext(ctx, "slack signature headers rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSlackBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		if _, err := verifier.Write(body); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if err := verifier.Ensure(); err != nil {
			slog.WarnContext(ctx, "slack signature mismatch", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
