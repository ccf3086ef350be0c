package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/obsd/support-relay/internal/model"
	"github.com/obsd/support-relay/internal/service/paging"
)

var ErrNoOnCall = errors.New("no one is on call")

type OnCallResolver interface {
	// Resolve never fails: anything short of a resolved on-call email defaults to the fallback assignee.
	Resolve(ctx context.Context) model.Resolution[string]
}

type OnCallConfig struct {
	ScheduleID         string
	EscalationPolicyID string
	DefaultEmail       string
}

type onCallResolver struct {
	paging paging.PagingService
	cfg    OnCallConfig
	policy CallPolicy
}

func NewOnCallResolver(pagingService paging.PagingService, cfg OnCallConfig, policy CallPolicy) OnCallResolver {
	return &onCallResolver{
		paging: pagingService,
		cfg:    cfg,
		policy: policy,
	}
}

func (r *onCallResolver) Resolve(ctx context.Context) model.Resolution[string] {
	email, err := r.lookup(ctx)
	if err != nil {
		slog.WarnContext(ctx, "on-call resolution fell back to default assignee",
			"error", err,
			"default_email", r.cfg.DefaultEmail)
		return model.Defaulted(r.cfg.DefaultEmail, err)
	}
	return model.Resolved(email)
}

func (r *onCallResolver) lookup(ctx context.Context) (string, error) {
	oncalls, _, err := callExternal(ctx, r.policy, servicePaging, "list_oncalls", func(ctx context.Context) ([]model.OnCall, error) {
		return r.paging.ListOnCalls(ctx, paging.ListOnCallsParams{
			ScheduleID:         r.cfg.ScheduleID,
			EscalationPolicyID: r.cfg.EscalationPolicyID,
		})
	})
	if err != nil {
		return "", err
	}
	if len(oncalls) == 0 {
		return "", ErrNoOnCall
	}

	// first entry wins; the paging service owns the ordering
	userID := oncalls[0].UserID
	if userID == "" {
		return "", fmt.Errorf("on-call entry without user id: %w", paging.ErrFieldAbsent)
	}

	user, _, err := callExternal(ctx, r.policy, servicePaging, "get_user", func(ctx context.Context) (model.PagingUser, error) {
		return r.paging.GetUser(ctx, userID)
	})
	if err != nil {
		return "", err
	}
	if user.Email == "" {
		return "", fmt.Errorf("on-call user %s without email: %w", userID, paging.ErrFieldAbsent)
	}
	return user.Email, nil
}
