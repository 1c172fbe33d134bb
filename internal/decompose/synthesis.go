// Package decompose implements the Decomposer (spec.md §4.4): 3NF synthesis
// (lossless + dependency-preserving) and BCNF analysis (lossless, may lose
// dependencies).
package decompose

import (
	"sort"

	"github.com/skeema/normalizeworkbench/internal/fd"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

// Synthesize3NF computes a lossless, dependency-preserving 3NF
// decomposition of relation universe u under FDSet f.
//
// 1. Compute the minimal cover M.
// 2. Emit one sub-schema per FD in M, attributes X ∪ Y, PK = X.
// 3. If no emitted sub-schema contains a full candidate key of u, append one
//    whose attributes are the deterministically-chosen candidate key.
// 4. Drop sub-schemas that are a proper subset of another; deduplicate.
//
// Result always has LostFDs = nil (3NF synthesis is dependency-preserving
// by construction).
func Synthesize3NF(name string, u schema.AttrSet, f schema.FDSet) schema.Decomposition {
	mc := fd.MinimalCover(f, u)

	var tables []schema.SubSchema
	for i, dep := range mc.List() {
		attrs := dep.Determinants.Union(dep.Dependents)
		tables = append(tables, schema.SubSchema{
			Name:       schema.Identifier(subSchemaName(name, i)),
			Attributes: attrs,
			PrimaryKey: dep.Determinants,
		})
	}

	keys := fd.CandidateKeys(u, f)
	ckCarried := false
	for _, t := range tables {
		for _, ck := range keys {
			if ck.IsSubsetOf(t.Attributes) {
				ckCarried = true
			}
		}
	}
	if !ckCarried && len(keys) > 0 {
		ck := fd.SmallestLexKey(keys)
		tables = append(tables, schema.SubSchema{
			Name:       schema.Identifier(subSchemaName(name, len(tables))),
			Attributes: ck,
			PrimaryKey: ck,
		})
	}

	tables = removeSubsetsAndDuplicates(tables)
	return schema.Decomposition{Tables: tables}
}

func subSchemaName(base string, i int) string {
	return base + "_" + indexSuffix(i)
}

func indexSuffix(i int) string {
	digits := "0123456789"
	if i == 0 {
		return "1"
	}
	// 1-indexed table suffixes read better than 0-indexed ones in generated DDL.
	n := i + 1
	var b []byte
	for n > 0 {
		b = append([]byte{digits[n%10]}, b...)
		n /= 10
	}
	return string(b)
}

// removeSubsetsAndDuplicates drops any sub-schema whose attribute set is a
// proper subset of another's, and deduplicates identical attribute sets,
// per spec.md §4.4.1 step 4 / §4.4.2 step 3.
func removeSubsetsAndDuplicates(tables []schema.SubSchema) []schema.SubSchema {
	seen := make(map[string]bool)
	var deduped []schema.SubSchema
	for _, t := range tables {
		key := t.Attributes.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, t)
	}

	var out []schema.SubSchema
	for i, t := range deduped {
		subsumed := false
		for j, other := range deduped {
			if i == j {
				continue
			}
			if t.Attributes.IsSubsetOf(other.Attributes) && !t.Attributes.Equals(other.Attributes) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return string(out[i].Name) < string(out[j].Name) })
	return out
}
