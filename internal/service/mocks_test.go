package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/obsd/support-relay/internal/model"
	"github.com/obsd/support-relay/internal/service/chat"
	"github.com/obsd/support-relay/internal/service/issue_tracker"
	"github.com/obsd/support-relay/internal/service/paging"
)

type postedMessage struct {
	ChannelID string
	Message   chat.Message
}

type mockChatService struct {
	fetchSenderFn    func(ctx context.Context, userID string) (model.SenderProfile, error)
	fetchChannelFn   func(ctx context.Context, channelID string) (model.ChannelInfo, error)
	fetchPermalinkFn func(ctx context.Context, channelID, ts string) (string, error)
	postMessageFn    func(ctx context.Context, channelID string, msg chat.Message) (string, error)

	mu     sync.Mutex
	posted []postedMessage
	calls  int
}

func (m *mockChatService) FetchSender(ctx context.Context, userID string) (model.SenderProfile, error) {
	m.count()
	if m.fetchSenderFn != nil {
		return m.fetchSenderFn(ctx, userID)
	}
	return model.SenderProfile{UserID: userID, Email: "jane@customer.io", DisplayName: "Jane"}, nil
}

func (m *mockChatService) FetchChannel(ctx context.Context, channelID string) (model.ChannelInfo, error) {
	m.count()
	if m.fetchChannelFn != nil {
		return m.fetchChannelFn(ctx, channelID)
	}
	return model.ChannelInfo{ChannelID: channelID, ChannelName: "customer-acme"}, nil
}

func (m *mockChatService) FetchPermalink(ctx context.Context, channelID, ts string) (string, error) {
	m.count()
	if m.fetchPermalinkFn != nil {
		return m.fetchPermalinkFn(ctx, channelID, ts)
	}
	return "https://acme.slack.com/archives/" + channelID + "/p" + ts, nil
}

func (m *mockChatService) PostMessage(ctx context.Context, channelID string, msg chat.Message) (string, error) {
	m.mu.Lock()
	m.calls++
	m.posted = append(m.posted, postedMessage{ChannelID: channelID, Message: msg})
	m.mu.Unlock()
	if m.postMessageFn != nil {
		return m.postMessageFn(ctx, channelID, msg)
	}
	return "1700000000.000100", nil
}

func (m *mockChatService) count() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockChatService) Posted() []postedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]postedMessage(nil), m.posted...)
}

func (m *mockChatService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockIssueTracker struct {
	fetchActiveCycleFn  func(ctx context.Context, teamID string) (model.Cycle, error)
	findMemberByEmailFn func(ctx context.Context, params issue_tracker.FindMemberParams) (model.TeamMember, error)
	createIssueFn       func(ctx context.Context, params issue_tracker.CreateIssueParams) (issue_tracker.CreatedIssue, error)

	mu            sync.Mutex
	memberLookups []issue_tracker.FindMemberParams
	created       []issue_tracker.CreateIssueParams
}

func (m *mockIssueTracker) FetchActiveCycle(ctx context.Context, teamID string) (model.Cycle, error) {
	if m.fetchActiveCycleFn != nil {
		return m.fetchActiveCycleFn(ctx, teamID)
	}
	return model.Cycle{ID: "cycle-1", Name: "Cycle 42"}, nil
}

func (m *mockIssueTracker) FindMemberByEmail(ctx context.Context, params issue_tracker.FindMemberParams) (model.TeamMember, error) {
	m.mu.Lock()
	m.memberLookups = append(m.memberLookups, params)
	m.mu.Unlock()
	if m.findMemberByEmailFn != nil {
		return m.findMemberByEmailFn(ctx, params)
	}
	return model.TeamMember{ID: "member-1", Email: params.Email}, nil
}

func (m *mockIssueTracker) CreateIssue(ctx context.Context, params issue_tracker.CreateIssueParams) (issue_tracker.CreatedIssue, error) {
	m.mu.Lock()
	m.created = append(m.created, params)
	m.mu.Unlock()
	if m.createIssueFn != nil {
		return m.createIssueFn(ctx, params)
	}
	return issue_tracker.CreatedIssue{ID: "issue-1", URL: "https://linear.app/acme/issue/SUP-1"}, nil
}

func (m *mockIssueTracker) Created() []issue_tracker.CreateIssueParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]issue_tracker.CreateIssueParams(nil), m.created...)
}

func (m *mockIssueTracker) MemberLookups() []issue_tracker.FindMemberParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]issue_tracker.FindMemberParams(nil), m.memberLookups...)
}

type mockPagingService struct {
	listOnCallsFn    func(ctx context.Context, params paging.ListOnCallsParams) ([]model.OnCall, error)
	getUserFn        func(ctx context.Context, userID string) (model.PagingUser, error)
	createIncidentFn func(ctx context.Context, params paging.CreateIncidentParams) (model.Incident, error)

	mu        sync.Mutex
	incidents []paging.CreateIncidentParams
}

func (m *mockPagingService) ListOnCalls(ctx context.Context, params paging.ListOnCallsParams) ([]model.OnCall, error) {
	if m.listOnCallsFn != nil {
		return m.listOnCallsFn(ctx, params)
	}
	return []model.OnCall{{UserID: "PUSER1", EscalationLevel: 1}}, nil
}

func (m *mockPagingService) GetUser(ctx context.Context, userID string) (model.PagingUser, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return model.PagingUser{ID: userID, Email: "oncall@obsd.io", Name: "On Call"}, nil
}

func (m *mockPagingService) CreateIncident(ctx context.Context, params paging.CreateIncidentParams) (model.Incident, error) {
	m.mu.Lock()
	m.incidents = append(m.incidents, params)
	n := len(m.incidents)
	m.mu.Unlock()
	if m.createIncidentFn != nil {
		return m.createIncidentFn(ctx, params)
	}
	return model.Incident{ID: fmt.Sprintf("PINC%d", n), Number: uint(n)}, nil
}

func (m *mockPagingService) Incidents() []paging.CreateIncidentParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]paging.CreateIncidentParams(nil), m.incidents...)
}

// blockUntilDone stands in for a hung upstream.
func blockUntilDone[T any](ctx context.Context) (T, error) {
	var zero T
	<-ctx.Done()
	return zero, ctx.Err()
}
