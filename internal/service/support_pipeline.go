package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/obsd/support-relay/common/id"
	"github.com/obsd/support-relay/common/logger"
	"github.com/obsd/support-relay/internal/metrics"
	"github.com/obsd/support-relay/internal/model"
	"github.com/obsd/support-relay/internal/store"
)

// SupportPipeline carries one inbound message from dedup through ticketing and notification.
type SupportPipeline interface {
	// Process runs the event synchronously. The error is non-nil only for aborted runs.
	Process(ctx context.Context, event model.InboundEvent) (model.PipelineRun, error)
	// Submit runs the event in the background, detached from ctx cancellation.
	Submit(ctx context.Context, event model.InboundEvent)
	// Wait blocks until submitted runs finish or ctx is done.
	Wait(ctx context.Context) error
}

type PipelineDeps struct {
	Dedup    store.DedupStore
	Enricher Enricher
	Filter   MessageFilter
	OnCall   OnCallResolver
	Tickets  TicketDispatcher
	Notifier Notifier
	Metrics  *metrics.Metrics
	TeamID   string
	Clock    func() time.Time // defaults to time.Now
}

type supportPipeline struct {
	deps     PipelineDeps
	now      func() time.Time
	inFlight sync.WaitGroup
}

func NewSupportPipeline(deps PipelineDeps) SupportPipeline {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &supportPipeline{deps: deps, now: now}
}

func (p *supportPipeline) Process(ctx context.Context, event model.InboundEvent) (model.PipelineRun, error) {
	run := model.PipelineRun{
		ID:        id.NewRunID(),
		EventID:   event.EventID,
		StartedAt: p.now(),
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EventID:   logger.Ptr(event.EventID),
		ChannelID: logger.Ptr(event.ChannelID),
		RunID:     logger.Ptr(run.ID),
		Component: "relay.service.pipeline",
	})
	sc := logger.StartSpan(ctx, "pipeline.run")
	defer sc.End()
	ctx = sc.Context()

	err := p.run(ctx, event, &run)

	run.FinishedAt = p.now()
	p.deps.Metrics.ObserveRun(string(run.Status), run.FinishedAt.Sub(run.StartedAt))
	sc.SetAttributes(
		attribute.String("pipeline.status", string(run.Status)),
		attribute.String("pipeline.reason", run.Reason),
		attribute.Bool("pipeline.escalation_offered", run.EscalationOffered),
	)
	sc.RecordError(err)

	slog.InfoContext(ctx, "pipeline run finished",
		"status", run.Status,
		"reason", run.Reason,
		"ticket", run.Ticket.Kind,
		"escalation_offered", run.EscalationOffered)

	return run, err
}

func (p *supportPipeline) run(ctx context.Context, event model.InboundEvent, run *model.PipelineRun) error {
	seen, err := p.deps.Dedup.SeenOrRecord(ctx, event.EventID)
	if err != nil {
		// fail open: a duplicate ticket beats a lost request
		slog.WarnContext(ctx, "dedup store unavailable, processing anyway", "error", err)
	}
	if seen {
		run.Status = model.RunStatusDuplicate
		return nil
	}

	// checked before any lookup so bot chatter costs no API calls
	if !event.HumanAuthored() {
		run.Status = model.RunStatusFiltered
		run.Reason = string(FilterNotHuman)
		return nil
	}

	sender := p.deps.Enricher.Sender(ctx, event)

	channel, err := p.deps.Enricher.Channel(ctx, event)
	if err != nil {
		return p.abort(run, "channel_lookup_failed", err)
	}

	decision := p.deps.Filter.ShouldProcess(event, sender, channel)
	if !decision.Accept {
		run.Status = model.RunStatusFiltered
		run.Reason = string(decision.Reason)
		return nil
	}

	permalink, err := p.deps.Enricher.Permalink(ctx, event)
	if err != nil {
		return p.abort(run, "permalink_lookup_failed", err)
	}

	run.Assignee = p.deps.OnCall.Resolve(ctx)
	run.Ticket = p.deps.Tickets.CreateTicket(ctx, model.TicketRequest{
		TeamID:        p.deps.TeamID,
		Title:         ticketTitle(sender, channel),
		Description:   ticketDescription(event, permalink),
		AssigneeEmail: run.Assignee.Value,
	})

	summary := SupportSummary{
		SenderName:  sender.DisplayName,
		SenderEmail: sender.Email,
		ChannelName: channel.ChannelName,
		Permalink:   permalink,
	}
	if err := p.deps.Notifier.NotifySupport(ctx, summary, run.Ticket); err != nil {
		slog.ErrorContext(ctx, "support notification failed", "error", err)
	}

	if p.deps.Notifier.IsLateHour(p.eventTime(event)) {
		if err := p.deps.Notifier.OfferEscalation(ctx, event.ChannelID); err != nil {
			slog.ErrorContext(ctx, "escalation offer failed", "error", err)
		} else {
			run.EscalationOffered = true
		}
	}

	run.Status = model.RunStatusProcessed
	return nil
}

func (p *supportPipeline) abort(run *model.PipelineRun, reason string, err error) error {
	run.Status = model.RunStatusAborted
	run.Reason = reason
	return fmt.Errorf("%s: %w", reason, err)
}

// eventTime prefers the platform timestamp and falls back to the clock.
func (p *supportPipeline) eventTime(event model.InboundEvent) time.Time {
	if at, ok := event.PostedAt(); ok {
		return at
	}
	return p.now()
}

func ticketTitle(sender model.SenderProfile, channel model.ChannelInfo) string {
	return fmt.Sprintf("Support message from %s on %s", sender.DisplayName, channel.ChannelName)
}

func ticketDescription(event model.InboundEvent, permalink string) string {
	desc := fmt.Sprintf("Link to message %s \nMessage content:\n%s", permalink, event.Text)
	if event.IsExternalSharedChannel {
		desc += "\nThis is an external shared channel"
	}
	return desc
}

func (p *supportPipeline) Submit(ctx context.Context, event model.InboundEvent) {
	ctx = context.WithoutCancel(ctx)
	p.inFlight.Add(1)
	go func() {
		defer p.inFlight.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "pipeline run panicked",
					"panic", r,
					"event_id", event.EventID)
			}
		}()

		if _, err := p.Process(ctx, event); err != nil {
			slog.ErrorContext(ctx, "pipeline run aborted",
				"error", err,
				"event_id", event.EventID)
		}
	}()
}

func (p *supportPipeline) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
