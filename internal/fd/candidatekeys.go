package fd

import (
	"sort"

	"github.com/skeema/normalizeworkbench/internal/schema"
)

// partitionThreshold is the attribute-universe size above which
// CandidateKeys switches from the naive subset scan to the
// essential/middle/non-key partitioning algorithm of spec.md §9. Below the
// threshold the naive scan is used directly since it is simpler and the
// difference is not observable.
const partitionThreshold = 15

// CandidateKeys enumerates the minimal superkeys of U under F. The result is
// an antichain: no member is a subset of another.
func CandidateKeys(u schema.AttrSet, f schema.FDSet) []schema.AttrSet {
	if u.Len() > partitionThreshold {
		return candidateKeysPartitioned(u, f)
	}
	return candidateKeysNaive(u, f)
}

// candidateKeysNaive iterates subsets of U in increasing cardinality order,
// recording a subset as a candidate only if it is a superkey and no
// previously recorded candidate is a subset of it.
func candidateKeysNaive(u schema.AttrSet, f schema.FDSet) []schema.AttrSet {
	var keys []schema.AttrSet
	u.Subsets(func(s schema.AttrSet) bool {
		if !IsSuperkey(s, f, u) {
			return true
		}
		for _, k := range keys {
			if k.IsSubsetOf(s) {
				// s is a non-minimal superkey; a smaller candidate already covers it.
				return true
			}
		}
		keys = append(keys, s)
		return true
	})
	return keys
}

// candidateKeysPartitioned classifies each attribute of U as:
//   - essential: never appears on any FD's right-hand side -> must be in
//     every candidate key (it can only be derived by itself).
//   - non-key: appears only on the right-hand side of FDs whose determinant
//     doesn't include it -> cannot usefully contribute to a minimal key
//     beyond being derivable, so it is excluded from the uncertain search
//     set (its presence never shrinks a key).
//   - middle: everything else; the uncertain set over which subsets are
//     enumerated.
//
// This must produce the same result set as candidateKeysNaive; the
// partitioning only shrinks the search space, it never changes the answer.
func candidateKeysPartitioned(u schema.AttrSet, f schema.FDSet) []schema.AttrSet {
	inLHS := schema.NewAttrSet()
	inRHS := schema.NewAttrSet()
	for _, dep := range f.List() {
		inLHS = inLHS.Union(dep.Determinants)
		inRHS = inRHS.Union(dep.Dependents)
	}

	essential := schema.NewAttrSet()
	middle := schema.NewAttrSet()
	for _, a := range u.Sorted() {
		onLHS := inLHS.Contains(a)
		onRHS := inRHS.Contains(a)
		switch {
		case !onRHS:
			// Never derivable from anything else: must be essential.
			essential = essential.Add(a)
		case onLHS && onRHS:
			middle = middle.Add(a)
		// else: non-key, appears only on some FD's right-hand side with a
		// determinant outside itself. Excluded from the search space below:
		// it is never needed to cover any minimal key.
		}
	}

	// Base is always part of every minimal key attempt; uncertain attrs
	// (middle) are the only ones we need to search over in combination
	// with the essential core.
	var keys []schema.AttrSet
	if IsSuperkey(essential, f, u) {
		return []schema.AttrSet{essential}
	}
	middle.Subsets(func(s schema.AttrSet) bool {
		candidate := essential.Union(s)
		if !IsSuperkey(candidate, f, u) {
			return true
		}
		for _, k := range keys {
			if k.IsSubsetOf(candidate) {
				return true
			}
		}
		keys = append(keys, candidate)
		return true
	})
	if len(keys) == 0 {
		// Degenerate fallback: should not happen for a consistent F (U
		// itself is always a superkey), but guards against pathological
		// inputs rather than returning an empty, spec-violating result.
		keys = append(keys, u)
	}
	return keys
}

// SmallestLexKey applies the spec's tie-break ("smallest cardinality, then
// lexicographic") to choose a single deterministic candidate key, e.g. for
// picking a primary key or a CK-carrier sub-schema in 3NF synthesis.
func SmallestLexKey(keys []schema.AttrSet) schema.AttrSet {
	if len(keys) == 0 {
		return schema.NewAttrSet()
	}
	sorted := make([]schema.AttrSet, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Len() != sorted[j].Len() {
			return sorted[i].Len() < sorted[j].Len()
		}
		return sorted[i].Key() < sorted[j].Key()
	})
	return sorted[0]
}
