// Package schema defines the value types shared by the normalization engine,
// the SQL construction layer, and the schema apply orchestrator: identifiers,
// attributes, relations, functional dependencies, and decompositions.
package schema

import (
	"sort"
	"strings"
)

// AttrSet is an immutable-in-practice set of attribute names. Its zero value
// is the empty set. AttrSets are compared and used as map keys via their
// canonical Key(), so two AttrSets built from the same names in any order
// compare equal.
type AttrSet struct {
	names map[string]struct{}
}

// NewAttrSet builds an AttrSet from the given names, deduplicating.
func NewAttrSet(names ...string) AttrSet {
	s := AttrSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Len returns the number of attributes in the set.
func (s AttrSet) Len() int { return len(s.names) }

// Contains reports whether name is a member of s.
func (s AttrSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Sorted returns the set's members as a lexicographically sorted slice.
func (s AttrSet) Sorted() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Key returns a canonical, comma-joined representation suitable for use as a
// map key or for deterministic logging.
func (s AttrSet) Key() string {
	return strings.Join(s.Sorted(), ",")
}

// Union returns a new set containing every member of s and other.
func (s AttrSet) Union(other AttrSet) AttrSet {
	out := NewAttrSet()
	for n := range s.names {
		out.names[n] = struct{}{}
	}
	for n := range other.names {
		out.names[n] = struct{}{}
	}
	return out
}

// Intersect returns a new set containing only members present in both s and other.
func (s AttrSet) Intersect(other AttrSet) AttrSet {
	out := NewAttrSet()
	for n := range s.names {
		if other.Contains(n) {
			out.names[n] = struct{}{}
		}
	}
	return out
}

// Minus returns a new set containing members of s absent from other.
func (s AttrSet) Minus(other AttrSet) AttrSet {
	out := NewAttrSet()
	for n := range s.names {
		if !other.Contains(n) {
			out.names[n] = struct{}{}
		}
	}
	return out
}

// Add returns a new set with name added.
func (s AttrSet) Add(name string) AttrSet {
	out := NewAttrSet()
	for n := range s.names {
		out.names[n] = struct{}{}
	}
	out.names[name] = struct{}{}
	return out
}

// Equals reports whether s and other contain exactly the same members.
func (s AttrSet) Equals(other AttrSet) bool {
	return s.Key() == other.Key()
}

// IsSubsetOf reports whether every member of s is also a member of other.
func (s AttrSet) IsSubsetOf(other AttrSet) bool {
	for n := range s.names {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the set has no members.
func (s AttrSet) IsEmpty() bool { return len(s.names) == 0 }

// Subsets yields every subset of s in increasing order of cardinality,
// calling visit with each. Iteration stops early if visit returns false.
// Intended for the naive candidate-key scan (§4.2); callers on larger
// universes should prefer the partitioned algorithm instead.
func (s AttrSet) Subsets(visit func(AttrSet) bool) {
	all := s.Sorted()
	n := len(all)
	for size := 0; size <= n; size++ {
		if !subsetsOfSize(all, size, visit) {
			return
		}
	}
}

func subsetsOfSize(all []string, size int, visit func(AttrSet) bool) bool {
	n := len(all)
	if size > n {
		return true
	}
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	emit := func() bool {
		names := make([]string, size)
		for i, j := range idx {
			names[i] = all[j]
		}
		return visit(NewAttrSet(names...))
	}
	if size == 0 {
		return emit()
	}
	for {
		if !emit() {
			return false
		}
		i := size - 1
		for i >= 0 && idx[i] == i+n-size {
			i--
		}
		if i < 0 {
			return true
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
