package router

import (
	"github.com/gin-gonic/gin"

	"github.com/obsd/support-relay/internal/http/handler/webhook"
	"github.com/obsd/support-relay/internal/http/middleware"
)

// SupportRouter mounts the Slack webhooks. Retries are acknowledged before signature checks so
// redeliveries never reach the body.
func SupportRouter(router *gin.RouterGroup, events *webhook.SlackEventsHandler, interactive *webhook.SlackInteractiveHandler, signingSecret string) {
	router.Use(middleware.SlackRetry())
	router.Use(middleware.SlackSignature(signingSecret))

	router.POST("/slack_events", events.HandleEvent)
	router.POST("/slack-interactive", interactive.HandleInteraction)
}
