// Package fd implements the FD Algebra Kernel (spec.md §4.2): pure,
// re-entrant set-theoretic operations over functional dependencies. No
// operation performs I/O or mutates its inputs.
package fd

import "github.com/skeema/normalizeworkbench/internal/schema"

// Closure computes X+ : the largest subset of U derivable from X under F.
// Handles X = empty (returns empty).
func Closure(x schema.AttrSet, f schema.FDSet, u schema.AttrSet) schema.AttrSet {
	working := x
	for {
		changed := false
		for _, dep := range f {
			if dep.Determinants.IsSubsetOf(working) {
				merged := working.Union(dep.Dependents)
				if merged.Len() > working.Len() {
					working = merged
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return working
}

// IsSuperkey reports whether Closure(X,F,U) = U.
func IsSuperkey(x schema.AttrSet, f schema.FDSet, u schema.AttrSet) bool {
	return Closure(x, f, u).Equals(u)
}
