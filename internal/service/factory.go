package service

import (
	"time"

	"github.com/obsd/support-relay/core/config"
	"github.com/obsd/support-relay/internal/metrics"
	"github.com/obsd/support-relay/internal/service/chat"
	"github.com/obsd/support-relay/internal/service/issue_tracker"
	"github.com/obsd/support-relay/internal/service/paging"
	"github.com/obsd/support-relay/internal/store"
)

type ServicesConfig struct {
	Config       config.Config
	Dedup        store.DedupStore
	Chat         chat.ChatService
	SupportChat  chat.ChatService // nil reuses Chat
	IssueTracker issue_tracker.IssueTrackerService
	Paging       paging.PagingService
	Metrics      *metrics.Metrics
	Clock        func() time.Time
}

type Services struct {
	cfg      ServicesConfig
	pipeline SupportPipeline
}

// NewServices builds the pipeline once; it tracks in-flight runs and must be shared.
func NewServices(cfg ServicesConfig) *Services {
	s := &Services{cfg: cfg}
	s.pipeline = NewSupportPipeline(PipelineDeps{
		Dedup:    cfg.Dedup,
		Enricher: s.Enricher(),
		Filter:   NewMessageFilter(cfg.Config.Support.ExcludedEmails),
		OnCall:   s.OnCall(),
		Tickets:  s.Tickets(),
		Notifier: s.Notifier(),
		Metrics:  cfg.Metrics,
		TeamID:   cfg.Config.Linear.TeamID,
		Clock:    cfg.Clock,
	})
	return s
}

func (s *Services) policy() CallPolicy {
	return CallPolicy{Timeout: s.cfg.Config.CallTimeout, Metrics: s.cfg.Metrics}
}

func (s *Services) Pipeline() SupportPipeline {
	return s.pipeline
}

func (s *Services) Enricher() Enricher {
	return NewEnricher(s.cfg.Chat, s.cfg.Config.Support.GeneralChannelNames, s.policy())
}

func (s *Services) OnCall() OnCallResolver {
	return NewOnCallResolver(s.cfg.Paging, OnCallConfig{
		ScheduleID:         s.cfg.Config.PagerDuty.ScheduleID,
		EscalationPolicyID: s.cfg.Config.PagerDuty.EscalationPolicyID,
		DefaultEmail:       s.cfg.Config.Support.DefaultAssigneeEmail,
	}, s.policy())
}

func (s *Services) Tickets() TicketDispatcher {
	return NewTicketDispatcher(s.cfg.IssueTracker, s.cfg.Config.Support.DefaultAssigneeEmail, s.policy())
}

func (s *Services) Notifier() Notifier {
	return NewNotifier(s.cfg.Chat, s.cfg.SupportChat, NotifierConfig{
		SupportChannelID: s.cfg.Config.Slack.SupportChannelID,
		EscalationToken:  s.cfg.Config.Support.EscalationToken,
		LateHours:        s.cfg.Config.Support.LateHours,
	}, s.policy())
}

func (s *Services) Escalation() EscalationService {
	return NewEscalationService(s.cfg.Paging, EscalationConfig{
		Token:             s.cfg.Config.Support.EscalationToken,
		ServiceID:         s.cfg.Config.PagerDuty.ServiceID,
		FromEmail:         s.cfg.Config.PagerDuty.FromEmail,
		SupportChannelURL: s.cfg.Config.Support.SupportChannelURL,
	}, s.policy())
}
