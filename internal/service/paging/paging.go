package paging

import (
	"context"
	"errors"

	"github.com/obsd/support-relay/internal/model"
)

var ErrFieldAbsent = errors.New("field absent in paging response")

type ListOnCallsParams struct {
	ScheduleID         string
	EscalationPolicyID string
}

type CreateIncidentParams struct {
	From      string // requester email, required by the PagerDuty REST API
	ServiceID string
	Title     string
	Details   string
}

type PagingService interface {
	// ListOnCalls returns the roster in the order the paging service reports it.
	ListOnCalls(ctx context.Context, params ListOnCallsParams) ([]model.OnCall, error)
	GetUser(ctx context.Context, userID string) (model.PagingUser, error)
	CreateIncident(ctx context.Context, params CreateIncidentParams) (model.Incident, error)
}
