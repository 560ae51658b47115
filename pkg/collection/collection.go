// Package collection maintains named, mutable sets of element handles.
//
// Layout constraints may name a collection instead of listing elements. The
// name is resolved each time the engine evaluates the constraint, so adding
// a tick label to "xticklabels" later makes it follow every constraint that
// targets that collection without re-registering anything.
//
// Sets are identity-deduplicated and keep insertion order, which keeps
// evaluation and output deterministic. A [Registry] is not safe for
// concurrent use.
package collection

import (
	"maps"
	"slices"
)

// Set is an ordered set of comparable handles.
type Set[E comparable] struct {
	items []E
	index map[E]int
}

// NewSet returns a set holding elems in order, with duplicates dropped.
func NewSet[E comparable](elems ...E) *Set[E] {
	s := &Set[E]{index: make(map[E]int, len(elems))}
	s.Add(elems...)
	return s
}

// Add inserts the elements that are not already present and reports how
// many were new.
func (s *Set[E]) Add(elems ...E) int {
	added := 0
	for _, e := range elems {
		if _, ok := s.index[e]; ok {
			continue
		}
		s.index[e] = len(s.items)
		s.items = append(s.items, e)
		added++
	}
	return added
}

// Remove deletes the given elements and reports how many were present.
func (s *Set[E]) Remove(elems ...E) int {
	removed := 0
	for _, e := range elems {
		if _, ok := s.index[e]; ok {
			delete(s.index, e)
			removed++
		}
	}
	if removed > 0 {
		s.reindex()
	}
	return removed
}

// RemoveFunc deletes every element for which drop returns true.
func (s *Set[E]) RemoveFunc(drop func(E) bool) int {
	before := len(s.items)
	s.items = slices.DeleteFunc(s.items, drop)
	if len(s.items) != before {
		s.reindex()
	}
	return before - len(s.items)
}

func (s *Set[E]) reindex() {
	kept := s.items[:0]
	for _, e := range s.items {
		if _, ok := s.index[e]; ok {
			kept = append(kept, e)
		}
	}
	s.items = kept
	s.index = make(map[E]int, len(kept))
	for i, e := range kept {
		s.index[e] = i
	}
}

// Contains reports whether e is a member.
func (s *Set[E]) Contains(e E) bool {
	_, ok := s.index[e]
	return ok
}

// Len returns the number of members.
func (s *Set[E]) Len() int { return len(s.items) }

// Items returns a copy of the members in insertion order.
func (s *Set[E]) Items() []E { return slices.Clone(s.items) }

// Registry maps collection names to sets.
type Registry[E comparable] struct {
	sets map[string]*Set[E]
}

// NewRegistry creates an empty registry.
func NewRegistry[E comparable]() *Registry[E] {
	return &Registry[E]{sets: make(map[string]*Set[E])}
}

// Add inserts elems into the named collection, creating it if needed.
// It reports whether the collection gained any member.
func (r *Registry[E]) Add(name string, elems ...E) bool {
	s, ok := r.sets[name]
	if !ok {
		s = NewSet[E]()
		r.sets[name] = s
	}
	return s.Add(elems...) > 0
}

// Get returns the members of the named collection. An unknown name yields
// an empty slice, never an error: constraints may refer to a group that has
// not been populated yet.
func (r *Registry[E]) Get(name string) []E {
	if s, ok := r.sets[name]; ok {
		return s.Items()
	}
	return nil
}

// Len returns the member count of the named collection.
func (r *Registry[E]) Len(name string) int {
	if s, ok := r.sets[name]; ok {
		return s.Len()
	}
	return 0
}

// Has reports whether a collection with the given name exists.
func (r *Registry[E]) Has(name string) bool {
	_, ok := r.sets[name]
	return ok
}

// Remove deletes elems from every collection. It returns the names of the
// collections that lost members and the subset of those left empty, both
// sorted.
func (r *Registry[E]) Remove(elems ...E) (changed, emptied []string) {
	for name, s := range r.sets {
		if s.Remove(elems...) == 0 {
			continue
		}
		changed = append(changed, name)
		if s.Len() == 0 {
			emptied = append(emptied, name)
		}
	}
	slices.Sort(changed)
	slices.Sort(emptied)
	return changed, emptied
}

// Prune drops every member for which exists returns false. It returns the
// names of the collections that changed and of those left empty, both
// sorted.
func (r *Registry[E]) Prune(exists func(E) bool) (changed, emptied []string) {
	for name, s := range r.sets {
		if s.RemoveFunc(func(e E) bool { return !exists(e) }) > 0 {
			changed = append(changed, name)
			if s.Len() == 0 {
				emptied = append(emptied, name)
			}
		}
	}
	slices.Sort(changed)
	slices.Sort(emptied)
	return changed, emptied
}

// Names returns all collection names in sorted order.
func (r *Registry[E]) Names() []string {
	return slices.Sorted(maps.Keys(r.sets))
}
