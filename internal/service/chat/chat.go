package chat

import (
	"context"
	"errors"

	"github.com/slack-go/slack"

	"github.com/obsd/support-relay/internal/model"
)

// ErrFieldAbsent marks a successful response that lacks a field the caller needs.
var ErrFieldAbsent = errors.New("field absent in chat response")

type Message struct {
	Text   string
	Blocks []slack.Block
}

// ChatService is the narrow slice of the chat platform the support pipeline reads and writes.
type ChatService interface {
	FetchSender(ctx context.Context, userID string) (model.SenderProfile, error)
	FetchChannel(ctx context.Context, channelID string) (model.ChannelInfo, error)
	FetchPermalink(ctx context.Context, channelID, ts string) (string, error)
	PostMessage(ctx context.Context, channelID string, msg Message) (string, error)
}
