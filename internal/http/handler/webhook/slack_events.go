package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack/slackevents"

	"github.com/obsd/support-relay/common/logger"
	"github.com/obsd/support-relay/internal/http/dto"
	"github.com/obsd/support-relay/internal/mapper"
	"github.com/obsd/support-relay/internal/model"
)

// EventSubmitter hands an inbound event to background processing.
type EventSubmitter interface {
	Submit(ctx context.Context, event model.InboundEvent)
}

type SlackEventsHandler struct {
	pipeline EventSubmitter
	mapper   mapper.EventMapper
}

func NewSlackEventsHandler(pipeline EventSubmitter, mapper mapper.EventMapper) *SlackEventsHandler {
	return &SlackEventsHandler{
		pipeline: pipeline,
		mapper:   mapper,
	}
}

// HandleEvent acknowledges every well-formed delivery immediately; processing happens after the response.
func (h *SlackEventsHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var envelope dto.SlackEventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	// token verification is replaced by the request signature
	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		slog.WarnContext(ctx, "unsupported slack event, ignoring",
			"error", err,
			"type", envelope.Type,
			"event_id", envelope.EventID)
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok", Message: "event type not supported"})
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		verification, ok := event.Data.(*slackevents.EventsAPIURLVerificationEvent)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		c.JSON(http.StatusOK, dto.ChallengeResponse{Challenge: verification.Challenge})

	case slackevents.CallbackEvent:
		h.handleCallback(c, event, envelope)

	default:
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok", Message: "event type not supported"})
	}
}

func (h *SlackEventsHandler) handleCallback(c *gin.Context, event slackevents.EventsAPIEvent, envelope dto.SlackEventEnvelope) {
	ctx := c.Request.Context()

	msg, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok", Message: "event type not supported"})
		return
	}

	inbound, err := h.mapper.MapMessage(msg, envelope.IsExtSharedChannel)
	if err != nil {
		slog.WarnContext(ctx, "slack message event not processable, ignoring",
			"error", err,
			"event_id", envelope.EventID,
			"channel_id", msg.Channel,
			"subtype", msg.SubType)
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok", Message: "event ignored"})
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EventID:   logger.Ptr(inbound.EventID),
		ChannelID: logger.Ptr(inbound.ChannelID),
		Component: "relay.http.slack_events",
	})
	slog.InfoContext(ctx, "slack message received",
		"text", logger.Truncate(inbound.Text, 200),
		"ext_shared", inbound.IsExternalSharedChannel)

	h.pipeline.Submit(ctx, inbound)
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}
