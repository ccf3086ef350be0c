package store

import (
	"context"
	"errors"
)

// ErrUnavailable wraps backend failures so callers can decide whether to fail open.
var ErrUnavailable = errors.New("dedup store unavailable")

// DedupStore remembers recently seen event ids.
type DedupStore interface {
	// SeenOrRecord returns true, without mutating anything, if eventID is already recorded and not expired.
	// Otherwise it records eventID and returns false. The check and the insert are one atomic step.
	SeenOrRecord(ctx context.Context, eventID string) (bool, error)
	Close() error
}
