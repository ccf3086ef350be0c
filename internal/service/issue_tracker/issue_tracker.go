package issue_tracker

import (
	"context"
	"errors"

	"github.com/obsd/support-relay/internal/model"
)

var (
	ErrNoActiveCycle    = errors.New("team has no active cycle")
	ErrAssigneeNotFound = errors.New("no team member with that email")
	ErrFieldAbsent      = errors.New("field absent in issue tracker response")
)

type FindMemberParams struct {
	TeamID string
	Email  string
}

type CreateIssueParams struct {
	TeamID      string
	CycleID     string
	AssigneeID  string
	Title       string
	Description string
}

type CreatedIssue struct {
	ID  string
	URL string
}

type IssueTrackerService interface {
	FetchActiveCycle(ctx context.Context, teamID string) (model.Cycle, error)
	FindMemberByEmail(ctx context.Context, params FindMemberParams) (model.TeamMember, error)
	CreateIssue(ctx context.Context, params CreateIssueParams) (CreatedIssue, error)
}
