package paging

import (
	"context"
	"fmt"

	"github.com/PagerDuty/go-pagerduty"

	"github.com/obsd/support-relay/internal/model"
)

type pagerDutyService struct {
	client *pagerduty.Client
}

// NewPagerDutyService builds a REST v2 client. apiURL is only set by tests and proxies.
func NewPagerDutyService(apiKey, apiURL string) PagingService {
	var opts []pagerduty.ClientOptions
	if apiURL != "" {
		opts = append(opts, pagerduty.WithAPIEndpoint(apiURL))
	}
	return &pagerDutyService{client: pagerduty.NewClient(apiKey, opts...)}
}

func (s *pagerDutyService) ListOnCalls(ctx context.Context, params ListOnCallsParams) ([]model.OnCall, error) {
	opts := pagerduty.ListOnCallOptions{}
	if params.ScheduleID != "" {
		opts.ScheduleIDs = []string{params.ScheduleID}
	}
	if params.EscalationPolicyID != "" {
		opts.EscalationPolicyIDs = []string{params.EscalationPolicyID}
	}

	resp, err := s.client.ListOnCallsWithContext(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing on-calls: %w", err)
	}

	oncalls := make([]model.OnCall, 0, len(resp.OnCalls))
	for _, oc := range resp.OnCalls {
		oncalls = append(oncalls, model.OnCall{
			UserID:          oc.User.ID,
			EscalationLevel: oc.EscalationLevel,
		})
	}
	return oncalls, nil
}

func (s *pagerDutyService) GetUser(ctx context.Context, userID string) (model.PagingUser, error) {
	user, err := s.client.GetUserWithContext(ctx, userID, pagerduty.GetUserOptions{})
	if err != nil {
		return model.PagingUser{}, fmt.Errorf("fetching pagerduty user %s: %w", userID, err)
	}
	if user == nil || user.Email == "" {
		return model.PagingUser{}, fmt.Errorf("pagerduty user %s has no email: %w", userID, ErrFieldAbsent)
	}
	return model.PagingUser{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

func (s *pagerDutyService) CreateIncident(ctx context.Context, params CreateIncidentParams) (model.Incident, error) {
	incident, err := s.client.CreateIncidentWithContext(ctx, params.From, &pagerduty.CreateIncidentOptions{
		Type:  "incident",
		Title: params.Title,
		Service: &pagerduty.APIReference{
			ID:   params.ServiceID,
			Type: "service_reference",
		},
		Body: &pagerduty.APIDetails{
			Type:    "incident_body",
			Details: params.Details,
		},
	})
	if err != nil {
		return model.Incident{}, fmt.Errorf("creating incident: %w", err)
	}
	if incident == nil || incident.ID == "" {
		return model.Incident{}, fmt.Errorf("incident.id: %w", ErrFieldAbsent)
	}
	return model.Incident{ID: incident.ID, Number: incident.IncidentNumber, URL: incident.HTMLURL}, nil
}
