package mapper

import (
	"errors"
	"fmt"

	"github.com/slack-go/slack/slackevents"

	"github.com/obsd/support-relay/internal/model"
)

// ErrMissingField marks a message event that cannot be processed for lack of an identifying field.
var ErrMissingField = errors.New("missing required field")

type EventMapper interface {
	MapMessage(ev *slackevents.MessageEvent, extShared bool) (model.InboundEvent, error)
}

type SlackEventMapper struct{}

func NewSlackEventMapper() *SlackEventMapper {
	return &SlackEventMapper{}
}

// MapMessage converts a Slack message event. client_msg_id is the dedup key, so it is required
// along with channel and ts; bot posts usually lack it and are rejected here.
func (m *SlackEventMapper) MapMessage(ev *slackevents.MessageEvent, extShared bool) (model.InboundEvent, error) {
	if ev == nil {
		return model.InboundEvent{}, fmt.Errorf("%w: event", ErrMissingField)
	}

	switch {
	case ev.ClientMsgID == "":
		return model.InboundEvent{}, fmt.Errorf("%w: client_msg_id", ErrMissingField)
	case ev.Channel == "":
		return model.InboundEvent{}, fmt.Errorf("%w: channel", ErrMissingField)
	case ev.TimeStamp == "":
		return model.InboundEvent{}, fmt.Errorf("%w: ts", ErrMissingField)
	}

	return model.InboundEvent{
		EventID:                 ev.ClientMsgID,
		ChannelID:               ev.Channel,
		SenderID:                ev.User,
		Text:                    ev.Text,
		Timestamp:               ev.TimeStamp,
		IsExternalSharedChannel: extShared,
		BotID:                   ev.BotID,
		Subtype:                 ev.SubType,
	}, nil
}
