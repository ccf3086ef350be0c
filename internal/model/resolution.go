package model

import "fmt"

type ResolutionKind string

const (
	ResolutionResolved  ResolutionKind = "resolved"
	ResolutionDefaulted ResolutionKind = "defaulted"
	ResolutionFailed    ResolutionKind = "failed"
)

// Resolution is the outcome of a lookup that can fall back or fail without aborting the caller.
// Err carries the cause for Defaulted and Failed results.
type Resolution[T any] struct {
	Value T
	Kind  ResolutionKind
	Err   error
}

func Resolved[T any](v T) Resolution[T] {
	return Resolution[T]{Value: v, Kind: ResolutionResolved}
}

func Defaulted[T any](v T, cause error) Resolution[T] {
	return Resolution[T]{Value: v, Kind: ResolutionDefaulted, Err: cause}
}

func Failed[T any](err error) Resolution[T] {
	return Resolution[T]{Kind: ResolutionFailed, Err: err}
}

// Usable reports whether Value can be used, i.e. it was resolved or defaulted.
func (r Resolution[T]) Usable() bool {
	return r.Kind == ResolutionResolved || r.Kind == ResolutionDefaulted
}

func (r Resolution[T]) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s(%v): %v", r.Kind, r.Value, r.Err)
	}
	return fmt.Sprintf("%s(%v)", r.Kind, r.Value)
}
