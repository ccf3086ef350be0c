package service

import (
	"context"
	"log/slog"

	"github.com/obsd/support-relay/internal/model"
	"github.com/obsd/support-relay/internal/service/issue_tracker"
)

type TicketDispatcher interface {
	// CreateTicket is best-effort: every failure is logged and returned as a Failed resolution.
	CreateTicket(ctx context.Context, req model.TicketRequest) model.Resolution[string]
}

type ticketDispatcher struct {
	tracker       issue_tracker.IssueTrackerService
	fallbackEmail string
	policy        CallPolicy
}

func NewTicketDispatcher(tracker issue_tracker.IssueTrackerService, fallbackEmail string, policy CallPolicy) TicketDispatcher {
	return &ticketDispatcher{
		tracker:       tracker,
		fallbackEmail: fallbackEmail,
		policy:        policy,
	}
}

func (d *ticketDispatcher) CreateTicket(ctx context.Context, req model.TicketRequest) model.Resolution[string] {
	url, err := d.create(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "ticket creation failed, continuing without a ticket link",
			"error", err,
			"team_id", req.TeamID,
			"assignee_email", req.AssigneeEmail)
		return model.Failed[string](err)
	}
	return model.Resolved(url)
}

func (d *ticketDispatcher) create(ctx context.Context, req model.TicketRequest) (string, error) {
	cycle, _, err := callExternal(ctx, d.policy, serviceIssueTracker, "active_cycle", func(ctx context.Context) (model.Cycle, error) {
		return d.tracker.FetchActiveCycle(ctx, req.TeamID)
	})
	if err != nil {
		return "", err
	}

	email := req.AssigneeEmail
	if email == "" {
		email = d.fallbackEmail
	}

	member, _, err := callExternal(ctx, d.policy, serviceIssueTracker, "member_by_email", func(ctx context.Context) (model.TeamMember, error) {
		return d.tracker.FindMemberByEmail(ctx, issue_tracker.FindMemberParams{TeamID: req.TeamID, Email: email})
	})
	if err != nil {
		return "", err
	}
	if member.ID == "" {
		return "", issue_tracker.ErrAssigneeNotFound
	}

	issue, _, err := callExternal(ctx, d.policy, serviceIssueTracker, "issue_create", func(ctx context.Context) (issue_tracker.CreatedIssue, error) {
		return d.tracker.CreateIssue(ctx, issue_tracker.CreateIssueParams{
			TeamID:      req.TeamID,
			CycleID:     cycle.ID,
			AssigneeID:  member.ID,
			Title:       req.Title,
			Description: req.Description,
		})
	})
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "ticket created",
		"issue_id", issue.ID,
		"url", issue.URL,
		"cycle_id", cycle.ID)
	return issue.URL, nil
}
