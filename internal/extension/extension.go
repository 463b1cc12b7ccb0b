// Package extension models extension contexts: stateful capabilities that are
// activated before the passes that need them run and deactivated once a pass
// that cannot coexist with them comes along.
package extension

import (
	"context"
	"sort"
)

// ID identifies an extension context type.
type ID string

// Env is the view of a running build that extension contexts operate on.
type Env interface {
	// Value returns a build-scoped value previously stored with SetValue.
	Value(key string) (any, bool)
	// SetValue stores a build-scoped value.
	SetValue(key string, value any)
}

// Context is implemented by extension contexts. OnActivate is called when a
// pass that requires the extension is about to run and the extension is not
// already active. OnDeactivate is called before a pass that is incompatible
// with the extension, or at the end of the phase.
type Context interface {
	OnActivate(ctx context.Context, env Env) error
	OnDeactivate(ctx context.Context, env Env) error
}

// SortIDs sorts ids in ascending order in place.
func SortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sortBy(ids []ID, less func(a, b ID) bool) {
	sort.SliceStable(ids, func(i, j int) bool { return less(ids[i], ids[j]) })
}

// Set is an unordered set of extension ids.
type Set map[ID]struct{}

// NewSet builds a set from ids.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s Set) Add(id ID) {
	s[id] = struct{}{}
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []ID {
	ids := make([]ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}
