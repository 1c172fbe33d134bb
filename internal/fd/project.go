package fd

import "github.com/skeema/normalizeworkbench/internal/schema"

// ProjectFDs computes F_S, the closure-based projection of F onto attribute
// subset S, per spec.md §4.2. For each X -> Y in F with X subset of S, emits
// X -> (Closure(X,F,U) ∩ S) \ X, dropping trivial results. This is REQUIRED
// for candidate-key finding on a decomposed sub-schema; the cheaper
// intersection shortcut (Y ∩ S) can miss induced dependencies and must only
// be used for dependency-preservation testing (see IsPreserved).
func ProjectFDs(f schema.FDSet, s schema.AttrSet, u schema.AttrSet) schema.FDSet {
	out := schema.NewFDSet()
	for _, dep := range f.List() {
		if !dep.Determinants.IsSubsetOf(s) {
			continue
		}
		closure := Closure(dep.Determinants, f, u)
		rhs := closure.Intersect(s).Minus(dep.Determinants)
		if rhs.IsEmpty() {
			continue
		}
		out.Add(dep.Determinants, rhs)
	}
	return out
}

// IsPreserved reports whether a single FD is attribute-contained within some
// sub-schema: X ∪ Y ⊆ Rᵢ for some Rᵢ. Per spec.md §4.2 this simple
// containment test is the contract; a complete F+ -based preservation test
// is not required.
func IsPreserved(x, y schema.AttrSet, subSchemas []schema.AttrSet) bool {
	combined := x.Union(y)
	for _, r := range subSchemas {
		if combined.IsSubsetOf(r) {
			return true
		}
	}
	return false
}

// UnpreservedFDs returns the subset of f whose FDs are not IsPreserved by
// any of subSchemas.
func UnpreservedFDs(f schema.FDSet, subSchemas []schema.AttrSet) []schema.FD {
	var lost []schema.FD
	for _, dep := range f.List() {
		if !IsPreserved(dep.Determinants, dep.Dependents, subSchemas) {
			lost = append(lost, dep)
		}
	}
	return lost
}
