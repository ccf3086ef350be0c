package logger

import (
	"context"
	"unicode/utf8"
)

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are added to every log record written with a context that carries them.
type LogFields struct {
	EventID   *string // chat platform message id (client_msg_id)
	ChannelID *string // channel the message was posted in
	RunID     *int64  // pipeline run id
	Component string  // e.g. "relay.service.pipeline"
}

// WithLogFields merges fields into ctx. Newer non-nil/non-empty values win.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields returns the fields stored in ctx, or the zero value.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.EventID != nil {
		result.EventID = next.EventID
	}
	if next.ChannelID != nil {
		result.ChannelID = next.ChannelID
	}
	if next.RunID != nil {
		result.RunID = next.RunID
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens s to at most maxLen bytes without splitting a rune, appending "..." when it cut something.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
