// Package space implements a one-dimensional occupancy structure with
// pluggable placement and growth policies.
//
// A Space is a finite strip of units (bits, words, bytes) holding
// non-overlapping occupants. Occupants are placed either at a fixed,
// caller-chosen start or "floating", at the first position the active
// placement policy accepts. Gaps between occupants are always materialized
// when iterating: walking a Space yields segments covering [0, Size())
// exactly, in ascending order, with nothing implied.
//
// The same structure is instantiated at every level of a register map:
// enumeration values inside a field, fields inside a register, registers
// inside a component, component instances inside a memory map. Only the
// policies and the unit change.
//
// Spaces do not support removal. Once an occupant is in, it stays.
package space

import (
	"fmt"
	"math/bits"
	"slices"
	"sort"
	"strings"
)

// Placed is an occupant or a gap as it sits in a Space: a start, a size, and
// (for occupants) the stored object. The two cases are distinguished by the
// Occupied field; gaps carry the zero value of T.
//
// Placed values are immutable once returned. Space operations replace
// segments, they never mutate them in place.
type Placed[T any] struct {
	Obj      T
	Start    uint64
	Size     uint64
	Occupied bool
}

// Occupy builds an occupied segment.
func Occupy[T any](obj T, start, size uint64) Placed[T] {
	return Placed[T]{Obj: obj, Start: start, Size: size, Occupied: true}
}

// Gap builds a gap segment.
func Gap[T any](start, size uint64) Placed[T] {
	return Placed[T]{Start: start, Size: size}
}

// End returns the position one past the last unit of the segment.
func (p Placed[T]) End() uint64 { return p.Start + p.Size }

// IsGap reports whether the segment is a hole rather than an occupant.
func (p Placed[T]) IsGap() bool { return !p.Occupied }

// Placer selects the rule deciding where, and whether, an object fits a gap.
type Placer int

const (
	// PlacerNone rejects every placement. Used for spaces that must never
	// receive new entries, such as an already fully specified fixed layout.
	PlacerNone Placer = iota

	// PlacerLinear packs an object at the start of the first gap large
	// enough to hold it, with no alignment constraint.
	PlacerLinear

	// PlacerBinary aligns an object to the next power-of-two boundary at or
	// above its size, so that address decoders can mask instead of compare.
	PlacerBinary
)

// Resizer selects the rule deciding how, and whether, a Space grows when a
// placement needs more room.
type Resizer int

const (
	// ResizerNone fixes the size of the Space at creation.
	ResizerNone Resizer = iota

	// ResizerLinear grows the Space to exactly the needed size.
	ResizerLinear

	// ResizerBinary grows the Space to the next power of two at or above
	// the needed size, keeping the total size a power of two.
	ResizerBinary
)

// Space is an ordered sequence of non-overlapping occupants inside a strip
// of Size units, together with the policies that govern new placements.
//
// A Space is built up by repeated Add/AddAt calls during a single
// elaboration pass and is read-only afterward. It is not safe for
// concurrent use.
type Space[T any] struct {
	size    uint64
	items   []Placed[T] // occupants only, ascending by Start
	placer  Placer
	resizer Resizer

	// EnforceFixedRules makes AddAt reject fixed placements that violate
	// the placer's alignment rule. Off by default: an authored offset is
	// honored even when it is unaligned.
	EnforceFixedRules bool
}

// New creates an empty Space of the given size and policies. A size of zero
// is promoted to one so that growable spaces have a seed to grow from.
func New[T any](size uint64, placer Placer, resizer Resizer) *Space[T] {
	if size == 0 {
		size = 1
	}
	return &Space[T]{size: size, placer: placer, resizer: resizer}
}

// Size returns the current total size of the Space.
func (s *Space[T]) Size() uint64 { return s.size }

// Len returns the number of occupants (gaps excluded).
func (s *Space[T]) Len() int { return len(s.items) }

// Segments returns every occupant and gap in ascending order of start. The
// result covers [0, Size()) exactly; gap segments fill every hole.
func (s *Space[T]) Segments() []Placed[T] {
	segs := make([]Placed[T], 0, 2*len(s.items)+1)
	var pos uint64
	for _, it := range s.items {
		if it.Start > pos {
			segs = append(segs, Gap[T](pos, it.Start-pos))
		}
		segs = append(segs, it)
		pos = it.End()
	}
	if pos < s.size {
		segs = append(segs, Gap[T](pos, s.size-pos))
	}
	return segs
}

// Items returns the occupants only, ascending by start.
func (s *Space[T]) Items() []Placed[T] {
	return slices.Clone(s.items)
}

// Gaps returns the holes only, ascending by start.
func (s *Space[T]) Gaps() []Placed[T] {
	var gaps []Placed[T]
	for _, seg := range s.Segments() {
		if seg.IsGap() {
			gaps = append(gaps, seg)
		}
	}
	return gaps
}

// At returns the segment containing the given position.
func (s *Space[T]) At(index uint64) (Placed[T], error) {
	if index >= s.size {
		return Placed[T]{}, &BoundsError{Index: index, Size: s.size}
	}
	for _, seg := range s.Segments() {
		if index < seg.End() {
			return seg, nil
		}
	}
	// Unreachable: Segments covers [0, Size()).
	return Placed[T]{}, &BoundsError{Index: index, Size: s.size}
}

// Slice returns the segments overlapping [start, end), with boundary
// segments clipped so the returned sizes sum to exactly end-start.
func (s *Space[T]) Slice(start, end uint64) ([]Placed[T], error) {
	if start > end || end > s.size {
		return nil, &BoundsError{Index: end, Size: s.size}
	}
	var out []Placed[T]
	for _, seg := range s.Segments() {
		if seg.End() <= start || seg.Start >= end {
			continue
		}
		lo := max(seg.Start, start)
		hi := min(seg.End(), end)
		seg.Start, seg.Size = lo, hi-lo
		out = append(out, seg)
	}
	return out, nil
}

// Last returns the final occupant if the Space ends with one, otherwise the
// trailing gap.
func (s *Space[T]) Last() Placed[T] {
	if n := len(s.items); n > 0 && s.items[n-1].End() == s.size {
		return s.items[n-1]
	}
	return s.LastGap()
}

// LastGap returns the gap after the final occupant. If the Space ends with
// an occupant the gap has zero size and starts at Size().
func (s *Space[T]) LastGap() Placed[T] {
	n := len(s.items)
	if n == 0 {
		return Gap[T](0, s.size)
	}
	end := s.items[n-1].End()
	return Gap[T](end, s.size-end)
}

// Add places obj of the given size at the first position the placement
// policy accepts, scanning gaps in ascending order. If no existing gap
// fits, the Space is grown (per its resize policy) by the amount a
// placement at the end of current content would need.
func (s *Space[T]) Add(obj T, size uint64) (Placed[T], error) {
	if s.placer == PlacerNone {
		return Placed[T]{}, &PlaceError[T]{Attempt: Occupy(obj, 0, size), Cause: ErrPlacementForbidden}
	}
	for _, gap := range s.Gaps() {
		if p, ok := s.place(obj, size, gap); ok {
			s.insert(p)
			return p, nil
		}
	}
	// No existing gap fits. Place as if the trailing gap were infinite,
	// then grow the Space out to meet the placement.
	p := s.placeInfinite(obj, size, s.LastGap().Start)
	if err := s.resize(p.End()); err != nil {
		return Placed[T]{}, &PlaceError[T]{Attempt: p, Cause: err}
	}
	s.insert(p)
	return p, nil
}

// AddAt places obj of the given size at exactly start. The placement fails
// if any existing occupant overlaps the candidate (a blocking conflict), if
// the candidate runs past the end of a fixed-size Space, or, when
// EnforceFixedRules is set, if the candidate violates the placer's
// alignment rule.
func (s *Space[T]) AddAt(obj T, size, start uint64) (Placed[T], error) {
	cand := Occupy(obj, start, size)
	if s.placer == PlacerNone {
		return Placed[T]{}, &PlaceError[T]{Attempt: cand, Cause: ErrPlacementForbidden}
	}
	if s.EnforceFixedRules && !s.validate(cand) {
		return Placed[T]{}, &AlignError[T]{Attempt: cand, Alignment: clp2(size)}
	}
	for _, it := range s.items {
		if it.Start < cand.End() && cand.Start < it.End() {
			return Placed[T]{}, &ConflictError[T]{Attempt: cand, Blocking: it}
		}
	}
	if cand.End() > s.size {
		if err := s.resize(cand.End()); err != nil {
			return Placed[T]{}, &PlaceError[T]{Attempt: cand, Cause: err}
		}
	}
	s.insert(cand)
	return cand, nil
}

// String renders the Space for debugging, ascending, one entry per segment:
// occupants as value(size), gaps as gap(size).
func (s *Space[T]) String() string {
	parts := make([]string, 0, 2*len(s.items)+1)
	for _, seg := range s.Segments() {
		if seg.IsGap() {
			parts = append(parts, fmt.Sprintf("gap(%d)", seg.Size))
		} else {
			parts = append(parts, fmt.Sprintf("%v(%d)", seg.Obj, seg.Size))
		}
	}
	return strings.Join(parts, ",")
}

// place tries to fit obj of size into gap under the active placer.
func (s *Space[T]) place(obj T, size uint64, gap Placed[T]) (Placed[T], bool) {
	switch s.placer {
	case PlacerLinear:
		if size <= gap.Size {
			return Occupy(obj, gap.Start, size), true
		}
	case PlacerBinary:
		start := alignUp(gap.Start, clp2(size))
		if start+size <= gap.End() {
			return Occupy(obj, start, size), true
		}
	}
	return Placed[T]{}, false
}

// placeInfinite computes the placement obj would get in an unbounded gap
// starting at minstart.
func (s *Space[T]) placeInfinite(obj T, size, minstart uint64) Placed[T] {
	start := minstart
	if s.placer == PlacerBinary {
		start = alignUp(minstart, clp2(size))
	}
	return Occupy(obj, start, size)
}

// validate reports whether a fixed placement independently satisfies the
// placer's alignment rule.
func (s *Space[T]) validate(p Placed[T]) bool {
	switch s.placer {
	case PlacerLinear:
		return true
	case PlacerBinary:
		return p.Start%clp2(p.Size) == 0
	}
	return false
}

// resize grows the Space so that Size() >= minsize. Shrinking never happens;
// a minsize at or below the current size is a no-op.
func (s *Space[T]) resize(minsize uint64) error {
	if minsize <= s.size {
		return nil
	}
	switch s.resizer {
	case ResizerLinear:
		s.size = minsize
	case ResizerBinary:
		s.size = clp2(minsize)
	default:
		return ErrResizeForbidden
	}
	return nil
}

// insert splices an occupant into the ordered item list.
func (s *Space[T]) insert(p Placed[T]) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].Start >= p.Start })
	s.items = slices.Insert(s.items, i, p)
}

// clp2 returns the smallest power of two >= x. clp2(0) and clp2(1) are 1.
func clp2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len64(x-1)
}

// alignUp rounds x up to the next multiple of align, a power of two.
func alignUp(x, align uint64) uint64 {
	return (x + align - 1) &^ (align - 1)
}
