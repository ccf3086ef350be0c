package chat

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/obsd/support-relay/internal/model"
)

// slackAPI is satisfied by *slack.Client.
type slackAPI interface {
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
	GetConversationInfoContext(ctx context.Context, input *slack.GetConversationInfoInput) (*slack.Channel, error)
	GetPermalinkContext(ctx context.Context, params *slack.PermalinkParameters) (string, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type slackChatService struct {
	api slackAPI
}

// NewSlackChatService builds a client for one workspace. apiURL is only set by tests and proxies.
func NewSlackChatService(token, apiURL string) ChatService {
	var opts []slack.Option
	if apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}
	return &slackChatService{api: slack.New(token, opts...)}
}

func (s *slackChatService) FetchSender(ctx context.Context, userID string) (model.SenderProfile, error) {
	user, err := s.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return model.SenderProfile{}, fmt.Errorf("fetching slack user %s: %w", userID, err)
	}
	if user == nil {
		return model.SenderProfile{}, fmt.Errorf("slack user %s: %w", userID, ErrFieldAbsent)
	}
	if user.Profile.Email == "" {
		return model.SenderProfile{}, fmt.Errorf("slack user %s has no profile.email: %w", userID, ErrFieldAbsent)
	}

	name := user.Profile.RealName
	if name == "" {
		name = user.RealName
	}
	if name == "" {
		name = user.Name
	}

	return model.SenderProfile{
		UserID:      user.ID,
		Email:       user.Profile.Email,
		DisplayName: name,
	}, nil
}

func (s *slackChatService) FetchChannel(ctx context.Context, channelID string) (model.ChannelInfo, error) {
	channel, err := s.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: channelID})
	if err != nil {
		return model.ChannelInfo{}, fmt.Errorf("fetching slack channel %s: %w", channelID, err)
	}
	if channel == nil || channel.Name == "" {
		return model.ChannelInfo{}, fmt.Errorf("slack channel %s has no name: %w", channelID, ErrFieldAbsent)
	}

	return model.ChannelInfo{
		ChannelID:   channelID,
		ChannelName: channel.Name,
	}, nil
}

func (s *slackChatService) FetchPermalink(ctx context.Context, channelID, ts string) (string, error) {
	link, err := s.api.GetPermalinkContext(ctx, &slack.PermalinkParameters{Channel: channelID, Ts: ts})
	if err != nil {
		return "", fmt.Errorf("fetching permalink for %s/%s: %w", channelID, ts, err)
	}
	if link == "" {
		return "", fmt.Errorf("permalink for %s/%s: %w", channelID, ts, ErrFieldAbsent)
	}
	return link, nil
}

func (s *slackChatService) PostMessage(ctx context.Context, channelID string, msg Message) (string, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(msg.Text, false)}
	if len(msg.Blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(msg.Blocks...))
	}

	_, ts, err := s.api.PostMessageContext(ctx, channelID, opts...)
	if err != nil {
		return "", fmt.Errorf("posting message to %s: %w", channelID, err)
	}
	return ts, nil
}
