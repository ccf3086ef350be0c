package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/obsd/support-relay/internal/model"
	"github.com/obsd/support-relay/internal/service/paging"
)

const incidentTitle = "Client requested urgent support"

type EscalationResult struct {
	Triggered bool
	Incident  model.Incident
}

// EscalationService turns an escalation button press into a paging incident.
// Repeated presses open repeated incidents.
type EscalationService interface {
	HandleCallback(ctx context.Context, body []byte) (EscalationResult, error)
}

type EscalationConfig struct {
	Token             string
	ServiceID         string
	FromEmail         string
	SupportChannelURL string
}

type escalationService struct {
	paging paging.PagingService
	cfg    EscalationConfig
	policy CallPolicy
}

func NewEscalationService(pagingService paging.PagingService, cfg EscalationConfig, policy CallPolicy) EscalationService {
	return &escalationService{
		paging: pagingService,
		cfg:    cfg,
		policy: policy,
	}
}

// HandleCallback matches the token anywhere in the raw body, so both form-encoded and
// JSON interaction payloads trigger it.
func (s *escalationService) HandleCallback(ctx context.Context, body []byte) (EscalationResult, error) {
	if s.cfg.Token == "" || !bytes.Contains(body, []byte(s.cfg.Token)) {
		s.policy.Metrics.ObserveEscalation("ignored")
		return EscalationResult{}, nil
	}

	params := paging.CreateIncidentParams{
		From:      s.cfg.FromEmail,
		ServiceID: s.cfg.ServiceID,
		Title:     incidentTitle,
		Details:   fmt.Sprintf("Client requested urgent support. go to %s to see the details", s.cfg.SupportChannelURL),
	}
	incident, _, err := callExternal(ctx, s.policy, servicePaging, "create_incident", func(ctx context.Context) (model.Incident, error) {
		return s.paging.CreateIncident(ctx, params)
	})
	if err != nil {
		s.policy.Metrics.ObserveEscalation("failed")
		return EscalationResult{Triggered: true}, err
	}

	s.policy.Metrics.ObserveEscalation("created")
	slog.InfoContext(ctx, "incident created from escalation",
		"incident_id", incident.ID,
		"incident_number", incident.Number)
	return EscalationResult{Triggered: true, Incident: incident}, nil
}
