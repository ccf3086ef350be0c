package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/slack-go/slack"

	"github.com/obsd/support-relay/core/config"
	"github.com/obsd/support-relay/internal/model"
	"github.com/obsd/support-relay/internal/service/chat"
)

const (
	escalationActionID = "escalate"
	escalationBlockID  = "support_escalation"

	lateHourText = "Hi, thanks for reaching out :innocent:; it seems most of the team is AFK(:sleeping:) at the moment- " +
		"so please expect a delay in response. If this is an emergency you can click the button below to escalate the call  " +
		"(:warning: this would probably wake someone up)."
	escalateButtonText = ":bell: Escalate! This is urgent!"
)

var ErrNoSupportChannel = errors.New("support channel not configured")

// SupportSummary is what the support team sees about an accepted message.
type SupportSummary struct {
	SenderName  string
	SenderEmail string
	ChannelName string
	Permalink   string
}

type Notifier interface {
	NotifySupport(ctx context.Context, summary SupportSummary, ticket model.Resolution[string]) error
	IsLateHour(at time.Time) bool
	OfferEscalation(ctx context.Context, channelID string) error
}

type NotifierConfig struct {
	SupportChannelID string
	EscalationToken  string
	LateHours        config.LateHoursConfig
}

type notifier struct {
	chat        chat.ChatService
	supportChat chat.ChatService
	cfg         NotifierConfig
	policy      CallPolicy
}

// NewNotifier posts summaries through supportChat and escalation offers through chatService.
// A nil supportChat reuses chatService.
func NewNotifier(chatService, supportChat chat.ChatService, cfg NotifierConfig, policy CallPolicy) Notifier {
	if supportChat == nil {
		supportChat = chatService
	}
	return &notifier{
		chat:        chatService,
		supportChat: supportChat,
		cfg:         cfg,
		policy:      policy,
	}
}

func (n *notifier) NotifySupport(ctx context.Context, summary SupportSummary, ticket model.Resolution[string]) error {
	if n.cfg.SupportChannelID == "" {
		return ErrNoSupportChannel
	}
	msg := chat.Message{Text: supportText(summary, ticket)}
	_, _, err := callExternal(ctx, n.policy, serviceChat, "post_support_summary", func(ctx context.Context) (string, error) {
		return n.supportChat.PostMessage(ctx, n.cfg.SupportChannelID, msg)
	})
	return err
}

func supportText(s SupportSummary, ticket model.Resolution[string]) string {
	text := fmt.Sprintf("New support message sent by %s(%s) on %s %s", s.SenderName, s.SenderEmail, s.ChannelName, s.Permalink)
	if ticket.Kind == model.ResolutionResolved && ticket.Value != "" {
		text += fmt.Sprintf(" - <%s|Link to Linear>", ticket.Value)
	}
	return text
}

func (n *notifier) IsLateHour(at time.Time) bool {
	if loc := n.cfg.LateHours.Location; loc != nil {
		at = at.In(loc)
	}
	return n.cfg.LateHours.Contains(at.Hour())
}

func (n *notifier) OfferEscalation(ctx context.Context, channelID string) error {
	msg := chat.Message{
		Text:   lateHourText,
		Blocks: escalationBlocks(n.cfg.EscalationToken),
	}
	_, _, err := callExternal(ctx, n.policy, serviceChat, "post_escalation_offer", func(ctx context.Context) (string, error) {
		return n.chat.PostMessage(ctx, channelID, msg)
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "escalation offered", "channel_id", channelID)
	return nil
}

func escalationBlocks(token string) []slack.Block {
	section := slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, lateHourText, false, false), nil, nil)

	button := slack.NewButtonBlockElement(escalationActionID, token,
		slack.NewTextBlockObject(slack.PlainTextType, escalateButtonText, true, false))
	button.Style = slack.StyleDanger

	return []slack.Block{
		section,
		slack.NewActionBlock(escalationBlockID, button),
	}
}
