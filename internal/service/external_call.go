package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/obsd/support-relay/common/logger"
	"github.com/obsd/support-relay/internal/metrics"
)

type CallOutcome string

const (
	CallOK       CallOutcome = "ok"
	CallTimedOut CallOutcome = "timed_out"
	CallFailed   CallOutcome = "error"
)

var ErrCallTimedOut = errors.New("external call timed out")

// Service labels used in spans and metrics.
const (
	serviceChat         = "slack"
	serviceIssueTracker = "linear"
	servicePaging       = "pagerduty"
)

// CallPolicy bounds every outbound request and records its outcome. A zero Timeout leaves the transport default.
type CallPolicy struct {
	Timeout time.Duration
	Metrics *metrics.Metrics
}

func callExternal[T any](ctx context.Context, c CallPolicy, service, operation string, fn func(ctx context.Context) (T, error)) (T, CallOutcome, error) {
	sc := logger.StartSpan(ctx, service+"."+operation, trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()

	callCtx := sc.Context()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, c.Timeout)
		defer cancel()
	}

	value, err := fn(callCtx)
	outcome := classifyOutcome(callCtx, err)

	c.Metrics.ObserveCall(service, operation, string(outcome))
	sc.SetAttributes(attribute.String("call.outcome", string(outcome)))

	switch outcome {
	case CallTimedOut:
		err = fmt.Errorf("%s %s: %w: %w", service, operation, ErrCallTimedOut, err)
	case CallFailed:
		err = fmt.Errorf("%s %s: %w", service, operation, err)
	}
	sc.RecordError(err)

	return value, outcome, err
}

func classifyOutcome(ctx context.Context, err error) CallOutcome {
	switch {
	case err == nil:
		return CallOK
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return CallTimedOut
	default:
		return CallFailed
	}
}
