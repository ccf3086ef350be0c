package webhook

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/obsd/support-relay/common/logger"
	"github.com/obsd/support-relay/internal/http/dto"
	"github.com/obsd/support-relay/internal/service"
)

type SlackInteractiveHandler struct {
	escalation service.EscalationService
}

func NewSlackInteractiveHandler(escalation service.EscalationService) *SlackInteractiveHandler {
	return &SlackInteractiveHandler{escalation: escalation}
}

// HandleInteraction passes the raw callback body to the escalation service.
// Slack shows an error to the user for anything but 200, so failures are logged and acknowledged.
func (h *SlackInteractiveHandler) HandleInteraction(c *gin.Context) {
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{Component: "relay.http.slack_interactive"})

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	result, err := h.escalation.HandleCallback(ctx, body)
	if err != nil {
		slog.ErrorContext(ctx, "escalation failed", "error", err)
		c.JSON(http.StatusOK, dto.EscalationResponse{Status: "error", Triggered: result.Triggered})
		return
	}

	c.JSON(http.StatusOK, dto.EscalationResponse{
		Status:    "ok",
		Triggered: result.Triggered,
		Incident:  result.Incident.ID,
	})
}
