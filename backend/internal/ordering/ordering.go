// Package ordering assigns and compares positions of siblings
// (columns within a project, cards within a column).
//
// New siblings get a position derived from the wall clock in milliseconds, so
// appends need no read-before-write. Repositioning picks a value strictly
// between the new neighbours and falls back to renumbering the whole sibling
// list with evenly spaced integers once no such value exists.
// Ties are always broken by the immutable insertion sequence.
package ordering

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/taskboard-dev/taskboard/shared/domain"
)

// Spacing is the gap between positions after renumbering.
const Spacing domain.Position = 1024

// Key is the total order of a sibling: position first, insertion sequence second.
type Key struct {
	Position domain.Position
	Seq      domain.InsertionSeq
}

func Compare(a, b Key) int {
	if c := cmp.Compare(a.Position, b.Position); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}

func Less(a, b Key) bool {
	return Compare(a, b) < 0
}

func ColumnKey(c domain.Column) Key { return Key{c.Position, c.Seq} }

func CardKey(c domain.Card) Key { return Key{c.Position, c.Seq} }

// Sort orders items ascending by key. Items with equal keys keep their relative order.
func Sort[T any](items []T, key func(T) Key) {
	slices.SortStableFunc(items, func(a, b T) int {
		return Compare(key(a), key(b))
	})
}

// Clock hands out append positions. Values are strictly increasing within one
// Clock even if the wall clock stalls or steps backwards.
type Clock struct {
	mu   sync.Mutex
	last domain.Position
	now  func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockWith is for tests.
func NewClockWith(now func() time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Next() domain.Position {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := domain.Position(c.now().UnixMilli())
	if p <= c.last {
		p = c.last + 1
	}
	c.last = p
	return p
}

// Between returns a position strictly between lo and hi. A nil bound is open.
// ok is false when the two bounds leave no representable value in between.
func Between(lo, hi *domain.Position) (p domain.Position, ok bool) {
	switch {
	case lo == nil && hi == nil:
		return Spacing, true
	case lo == nil:
		p = *hi - Spacing
		return p, p < *hi
	case hi == nil:
		p = *lo + Spacing
		return p, p > *lo
	}
	p = *lo + (*hi-*lo)/2
	return p, *lo < p && p < *hi
}

// Renumber returns n evenly spaced integer positions.
func Renumber(n int) []domain.Position {
	out := make([]domain.Position, n)
	for i := range out {
		out[i] = domain.Position(i+1) * Spacing
	}
	return out
}

// Placement is the outcome of Place.
// When Renumbered is false only the moved sibling changes, to Position.
// Otherwise every sibling in Order must be rewritten with the matching entry of Positions.
type Placement[ID comparable] struct {
	Position   domain.Position
	Renumbered bool
	Order      []ID
	Positions  []domain.Position
}

// Sibling is the minimum Place needs to know about a sibling.
type Sibling[ID comparable] struct {
	Id  ID
	Key Key
}

// Place computes where moved lands when inserted right after `after`
// (nil means first) among siblings. siblings must already be ordered and must
// not contain moved. found is false if after is not among siblings.
func Place[ID comparable](siblings []Sibling[ID], moved ID, after *ID) (pl Placement[ID], found bool) {
	idx := 0 // insertion index into siblings
	if after != nil {
		i := slices.IndexFunc(siblings, func(s Sibling[ID]) bool { return s.Id == *after })
		if i < 0 {
			return pl, false
		}
		idx = i + 1
	}

	var lo, hi *domain.Position
	if idx > 0 {
		p := siblings[idx-1].Key.Position
		lo = &p
	}
	if idx < len(siblings) {
		p := siblings[idx].Key.Position
		hi = &p
	}

	if p, ok := Between(lo, hi); ok {
		return Placement[ID]{Position: p}, true
	}

	order := make([]ID, 0, len(siblings)+1)
	for _, s := range siblings[:idx] {
		order = append(order, s.Id)
	}
	order = append(order, moved)
	for _, s := range siblings[idx:] {
		order = append(order, s.Id)
	}
	positions := Renumber(len(order))
	return Placement[ID]{
		Position:   positions[idx],
		Renumbered: true,
		Order:      order,
		Positions:  positions,
	}, true
}
