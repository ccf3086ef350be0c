package service

import (
	"regexp"
	"strings"

	"github.com/obsd/support-relay/internal/model"
)

type FilterReason string

const (
	FilterAccepted          FilterReason = "accepted"
	FilterNotHuman          FilterReason = "not_human_authored"
	FilterExcludedSender    FilterReason = "excluded_sender"
	FilterGeneralNoQuestion FilterReason = "general_channel_without_question"
)

type FilterDecision struct {
	Accept bool
	Reason FilterReason
}

type MessageFilter interface {
	ShouldProcess(event model.InboundEvent, sender model.SenderProfile, channel model.ChannelInfo) FilterDecision
}

type messageFilter struct {
	excluded *regexp.Regexp
}

// NewMessageFilter rejects senders matching excluded (nil excludes nobody) and
// question-less chatter in general channels.
func NewMessageFilter(excluded *regexp.Regexp) MessageFilter {
	return &messageFilter{excluded: excluded}
}

func (f *messageFilter) ShouldProcess(event model.InboundEvent, sender model.SenderProfile, channel model.ChannelInfo) FilterDecision {
	if !event.HumanAuthored() {
		return FilterDecision{Reason: FilterNotHuman}
	}
	// placeholder identities are never excluded: a failed lookup must not drop a real request
	if !sender.Placeholder && f.excluded != nil && f.excluded.MatchString(sender.Email) {
		return FilterDecision{Reason: FilterExcludedSender}
	}
	if channel.IsGeneral && !strings.Contains(event.Text, "?") {
		return FilterDecision{Reason: FilterGeneralNoQuestion}
	}
	return FilterDecision{Accept: true, Reason: FilterAccepted}
}
