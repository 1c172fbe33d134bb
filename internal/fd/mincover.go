package fd

import "github.com/skeema/normalizeworkbench/internal/schema"

// singletonFD is an FD with a single-attribute right-hand side, used
// internally while building the minimal cover.
type singletonFD struct {
	lhs schema.AttrSet
	rhs string
}

// MinimalCover computes a canonical cover of F per spec.md §4.2: split RHS
// to singletons, minimize each LHS, then drop redundant FDs using the
// incremental (post-LHS-minimization) check — NOT the remove-against-the
// original-set variant (§9's resolved Open Question).
func MinimalCover(f schema.FDSet, u schema.AttrSet) schema.FDSet {
	// Phase 1: split into singleton-RHS FDs.
	var singles []singletonFD
	for _, dep := range f.List() {
		for _, a := range dep.Dependents.Sorted() {
			singles = append(singles, singletonFD{lhs: dep.Determinants, rhs: a})
		}
	}

	// Build the working FDSet used for closures during LHS minimization;
	// this is the CURRENT (post-split) set, re-derived from `singles` as it
	// mutates, per spec.md §4.2 step 2.
	toFDSet := func(items []singletonFD) schema.FDSet {
		out := schema.NewFDSet()
		for _, s := range items {
			out.Add(s.lhs, schema.NewAttrSet(s.rhs))
		}
		return out
	}

	// Phase 2: for each FD X -> a, attempt to remove each x in X (in
	// lexicographic order) if a remains in Closure(X\{x}) under the
	// CURRENT set.
	for i, s := range singles {
		for _, x := range s.lhs.Sorted() {
			reduced := s.lhs.Minus(schema.NewAttrSet(x))
			if reduced.IsEmpty() {
				continue
			}
			current := toFDSet(singles)
			cl := Closure(reduced, current, u)
			if cl.Contains(s.rhs) {
				singles[i].lhs = reduced
				s.lhs = reduced
			}
		}
	}

	// Phase 3: incremental redundancy check (Eisen-Maier style, per §9 —
	// the survivor set F' is mutated in place as redundant FDs are found,
	// so later tests see earlier removals; this is the variant the spec
	// requires, as opposed to checking each FD against the untouched
	// original post-split set).
	survivors := make([]singletonFD, len(singles))
	copy(survivors, singles)
	for i := 0; i < len(survivors); {
		s := survivors[i]
		without := make([]singletonFD, 0, len(survivors)-1)
		without = append(without, survivors[:i]...)
		without = append(without, survivors[i+1:]...)
		current := toFDSet(without)
		if Closure(s.lhs, current, u).Contains(s.rhs) {
			// Redundant: drop it and re-test from the same index against
			// the now-shrunk survivor set.
			survivors = without
			continue
		}
		i++
	}

	// Recompact: merge singleton RHS with identical LHS.
	out := schema.NewFDSet()
	for _, s := range survivors {
		out.Add(s.lhs, schema.NewAttrSet(s.rhs))
	}
	return out
}
