package service

import (
	"context"
	"log/slog"

	"github.com/obsd/support-relay/internal/model"
	"github.com/obsd/support-relay/internal/service/chat"
)

// Enricher resolves the context a support ticket needs from the chat platform.
// Each lookup is independent and is never retried.
type Enricher interface {
	// Sender never fails; a failed lookup yields model.PlaceholderSender.
	Sender(ctx context.Context, event model.InboundEvent) model.SenderProfile
	Channel(ctx context.Context, event model.InboundEvent) (model.ChannelInfo, error)
	Permalink(ctx context.Context, event model.InboundEvent) (string, error)
}

type enricher struct {
	chat    chat.ChatService
	general map[string]struct{}
	policy  CallPolicy
}

func NewEnricher(chatService chat.ChatService, generalChannels []string, policy CallPolicy) Enricher {
	general := make(map[string]struct{}, len(generalChannels))
	for _, name := range generalChannels {
		general[name] = struct{}{}
	}
	return &enricher{
		chat:    chatService,
		general: general,
		policy:  policy,
	}
}

func (e *enricher) Sender(ctx context.Context, event model.InboundEvent) model.SenderProfile {
	sender, outcome, err := callExternal(ctx, e.policy, serviceChat, "users_info", func(ctx context.Context) (model.SenderProfile, error) {
		return e.chat.FetchSender(ctx, event.SenderID)
	})
	if err != nil {
		slog.WarnContext(ctx, "sender lookup failed, using placeholder identity",
			"error", err,
			"outcome", outcome,
			"sender_id", event.SenderID)
		return model.PlaceholderSender(event.SenderID)
	}
	return sender
}

func (e *enricher) Channel(ctx context.Context, event model.InboundEvent) (model.ChannelInfo, error) {
	channel, _, err := callExternal(ctx, e.policy, serviceChat, "conversations_info", func(ctx context.Context) (model.ChannelInfo, error) {
		return e.chat.FetchChannel(ctx, event.ChannelID)
	})
	if err != nil {
		return model.ChannelInfo{}, err
	}
	_, channel.IsGeneral = e.general[channel.ChannelName]
	return channel, nil
}

func (e *enricher) Permalink(ctx context.Context, event model.InboundEvent) (string, error) {
	link, _, err := callExternal(ctx, e.policy, serviceChat, "get_permalink", func(ctx context.Context) (string, error) {
		return e.chat.FetchPermalink(ctx, event.ChannelID, event.Timestamp)
	})
	return link, err
}
