package decompose

import (
	"fmt"
	"sort"

	"github.com/skeema/normalizeworkbench/internal/fd"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

// BCNFAnalysisError is an internal invariant failure (spec.md §7
// DecompositionInvariant), e.g. a sub-schema with no discoverable candidate
// key after projection.
type BCNFAnalysisError struct {
	SubSchema schema.AttrSet
	Reason    string
}

func (e *BCNFAnalysisError) Error() string {
	return fmt.Sprintf("BCNF analysis invariant violated for sub-schema %s: %s", e.SubSchema.Key(), e.Reason)
}

// AnalyzeBCNF computes a lossless BCNF decomposition of relation universe u
// under FDSet f, using the worklist algorithm of spec.md §4.4.2.
//
// Split choice (declared per §9's Open Question): this implementation uses
// the CLOSURE variant — when a violating FD X -> Y is found in sub-schema S,
// S is replaced by S1 = X ∪ (Closure(X,F_S,S) \ X) and S2 = (S \ (Closure(X,
// F_S,S) \ X)) ∪ X, rather than splitting on X -> Y verbatim. This produces
// larger, more consolidated sub-schemas and is equally lossless.
//
// Dependency preservation is not guaranteed; Decomposition.LostFDs reports
// the original FDs not attribute-contained in any final sub-schema.
func AnalyzeBCNF(name string, u schema.AttrSet, f schema.FDSet) (schema.Decomposition, error) {
	worklist := []schema.AttrSet{u}
	var result []schema.AttrSet

	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]

		fs := fd.ProjectFDs(f, s, u)
		violating, found := findBCNFViolation(s, fs)
		if !found {
			result = append(result, s)
			continue
		}

		yFull := fd.Closure(violating.Determinants, fs, s).Minus(violating.Determinants)
		s1 := violating.Determinants.Union(yFull)
		s2 := s.Minus(yFull).Union(violating.Determinants)

		worklist = append(worklist, s1, s2)
	}

	result = dedupSubsetAttrSets(result)

	var tables []schema.SubSchema
	for i, attrs := range result {
		fs := fd.ProjectFDs(f, attrs, u)
		keys := fd.CandidateKeys(attrs, fs)
		if len(keys) == 0 {
			return schema.Decomposition{}, &BCNFAnalysisError{SubSchema: attrs, Reason: "no candidate key found after projection"}
		}
		pk := fd.SmallestLexKey(keys)
		tables = append(tables, schema.SubSchema{
			Name:       schema.Identifier(subSchemaName(name, i)),
			Attributes: attrs,
			PrimaryKey: pk,
		})
	}
	sort.Slice(tables, func(i, j int) bool { return string(tables[i].Name) < string(tables[j].Name) })

	subAttrSets := make([]schema.AttrSet, len(tables))
	for i, t := range tables {
		subAttrSets[i] = t.Attributes
	}
	lost := fd.UnpreservedFDs(f, subAttrSets)

	return schema.Decomposition{Tables: tables, LostFDs: lost}, nil
}

// findBCNFViolation finds a non-trivial FD X -> Y in fs with X a proper
// subset of s and X not a superkey of s under fs. Ties are broken
// deterministically: smallest |X|, then lexicographic on X, then on Y.
func findBCNFViolation(s schema.AttrSet, fs schema.FDSet) (schema.FD, bool) {
	candidates := fs.List()
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Determinants.Len() != b.Determinants.Len() {
			return a.Determinants.Len() < b.Determinants.Len()
		}
		if a.Determinants.Key() != b.Determinants.Key() {
			return a.Determinants.Key() < b.Determinants.Key()
		}
		return a.Dependents.Key() < b.Dependents.Key()
	})
	for _, dep := range candidates {
		if dep.Dependents.IsSubsetOf(dep.Determinants) {
			continue
		}
		if !dep.Determinants.IsSubsetOf(s) || dep.Determinants.Equals(s) {
			continue
		}
		if !fd.IsSuperkey(dep.Determinants, fs, s) {
			return dep, true
		}
	}
	return schema.FD{}, false
}

func dedupSubsetAttrSets(sets []schema.AttrSet) []schema.AttrSet {
	seen := make(map[string]bool)
	var deduped []schema.AttrSet
	for _, s := range sets {
		if seen[s.Key()] {
			continue
		}
		seen[s.Key()] = true
		deduped = append(deduped, s)
	}
	var out []schema.AttrSet
	for i, s := range deduped {
		subsumed := false
		for j, other := range deduped {
			if i == j {
				continue
			}
			if s.IsSubsetOf(other) && !s.Equals(other) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, s)
		}
	}
	return out
}
