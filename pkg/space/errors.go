package space

import (
	"errors"
	"fmt"
)

// Sentinel causes for placement failures.
var (
	// ErrPlacementForbidden is returned when adding to a Space whose placer
	// is PlacerNone. Such spaces never receive new entries.
	ErrPlacementForbidden = errors.New("placement in this space is not allowed")

	// ErrResizeForbidden is returned when a placement needs the Space to
	// grow but its resizer is ResizerNone.
	ErrResizeForbidden = errors.New("resizing this space is not allowed")
)

// PlaceError reports an add that found no valid location. Attempt is the
// placement that was tried (for floating adds, the hypothetical end-of-space
// placement); Cause is the sentinel explaining why it was rejected.
type PlaceError[T any] struct {
	Attempt Placed[T]
	Cause   error
}

func (e *PlaceError[T]) Error() string {
	return fmt.Sprintf("no room for object of size %d: %v", e.Attempt.Size, e.Cause)
}

func (e *PlaceError[T]) Unwrap() error { return e.Cause }

// ConflictError reports a fixed placement blocked by an existing occupant.
// Both segments are carried so callers can name the two objects involved.
type ConflictError[T any] struct {
	Attempt  Placed[T]
	Blocking Placed[T]
}

func (e *ConflictError[T]) Error() string {
	return fmt.Sprintf("placement [%d,%d) blocked by existing object at [%d,%d)",
		e.Attempt.Start, e.Attempt.End(), e.Blocking.Start, e.Blocking.End())
}

// AlignError reports a fixed placement that violates the placer's alignment
// rule on a Space with EnforceFixedRules set.
type AlignError[T any] struct {
	Attempt   Placed[T]
	Alignment uint64
}

func (e *AlignError[T]) Error() string {
	return fmt.Sprintf("fixed placement at %d violates alignment %d for size %d",
		e.Attempt.Start, e.Alignment, e.Attempt.Size)
}

// BoundsError reports a point lookup or slice outside [0, Size()).
type BoundsError struct {
	Index uint64
	Size  uint64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("position %d outside space of size %d", e.Index, e.Size)
}
