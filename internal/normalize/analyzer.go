// Package normalize implements the Normal-Form Analyzer (spec.md §4.3):
// classifies a relation as {1NF,2NF,3NF,BCNF}-compliant and produces
// violation witnesses.
package normalize

import (
	"fmt"

	"github.com/skeema/normalizeworkbench/internal/fd"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

// Status is the compliance status of a single normal form.
type Status string

const (
	StatusCompliant         Status = "COMPLIANT"
	StatusViolationDetected Status = "VIOLATION_DETECTED"
	StatusAssumedCompliant  Status = "ASSUMED_COMPLIANT"
	StatusNotChecked        Status = "NOT_CHECKED"
)

// Violation describes one concrete failure of a normal-form rule.
type Violation struct {
	Determinants schema.AttrSet
	Dependents   schema.AttrSet
	Description  string
}

// FormResult is the outcome for one normal form.
type FormResult struct {
	Status     Status
	Message    string
	Violations []Violation
}

// Report is the complete analysis output, including data the Decomposer
// needs on handoff.
type Report struct {
	OneNF         FormResult
	TwoNF         FormResult
	ThreeNF       FormResult
	BCNF          FormResult
	CandidateKeys []schema.AttrSet
	Dependencies  schema.FDSet // F_user ∪ {PK -> U\PK}
	Universe      schema.AttrSet
}

// Analyze classifies relation r against userFDs per spec.md §4.3. If
// r.PrimaryKey is empty, only the 1NF result is populated and every other
// form is NotChecked (a non-empty PK is required to derive F = F_user ∪
// {PK -> U\PK}).
func Analyze(r schema.Relation, userFDs schema.FDSet) Report {
	u := r.Universe()
	report := Report{
		OneNF:    FormResult{Status: StatusAssumedCompliant, Message: "atomicity enforced at the physical layer"},
		Universe: u,
	}

	if r.PrimaryKey.IsEmpty() {
		notChecked := FormResult{Status: StatusNotChecked, Message: "no primary key designated; cannot derive functional dependency closure"}
		report.TwoNF = notChecked
		report.ThreeNF = notChecked
		report.BCNF = notChecked
		return report
	}

	f := userFDs.Clone()
	f.Add(r.PrimaryKey, u.Minus(r.PrimaryKey))
	report.Dependencies = f

	keys := fd.CandidateKeys(u, f)
	report.CandidateKeys = keys

	report.TwoNF = analyze2NF(u, f, keys)
	report.ThreeNF = analyze3NF(u, f, keys)
	report.BCNF = analyzeBCNF(u, f, keys)
	return report
}

func primeAttributes(keys []schema.AttrSet) schema.AttrSet {
	prime := schema.NewAttrSet()
	for _, k := range keys {
		prime = prime.Union(k)
	}
	return prime
}

func analyze2NF(u schema.AttrSet, f schema.FDSet, keys []schema.AttrSet) FormResult {
	prime := primeAttributes(keys)
	nonPrime := u.Minus(prime)

	var violations []Violation
	for _, ck := range keys {
		if ck.Len() <= 1 {
			continue
		}
		ck.Subsets(func(s schema.AttrSet) bool {
			if s.IsEmpty() || s.Equals(ck) {
				return true
			}
			partial := fd.Closure(s, f, u).Intersect(nonPrime)
			if !partial.IsEmpty() {
				violations = append(violations, Violation{
					Determinants: s,
					Dependents:   partial,
					Description:  fmt.Sprintf("partial dependency %s -> %s of candidate key %s", s.Key(), partial.Key(), ck.Key()),
				})
			}
			return true
		})
	}

	if len(violations) == 0 {
		return FormResult{Status: StatusCompliant, Message: "no partial dependency on any candidate key found"}
	}
	return FormResult{Status: StatusViolationDetected, Message: "one or more non-prime attributes are partially dependent on a candidate key", Violations: violations}
}

func analyze3NF(u schema.AttrSet, f schema.FDSet, keys []schema.AttrSet) FormResult {
	prime := primeAttributes(keys)

	var violations []Violation
	for _, dep := range f.List() {
		if dep.Dependents.IsSubsetOf(dep.Determinants) {
			continue
		}
		if fd.IsSuperkey(dep.Determinants, f, u) {
			continue
		}
		for _, a := range dep.Dependents.Minus(dep.Determinants).Sorted() {
			if !prime.Contains(a) {
				violations = append(violations, Violation{
					Determinants: dep.Determinants,
					Dependents:   schema.NewAttrSet(a),
					Description:  fmt.Sprintf("transitive dependency %s -> %s", dep.Determinants.Key(), a),
				})
			}
		}
	}

	if len(violations) == 0 {
		return FormResult{Status: StatusCompliant, Message: "every non-prime attribute depends only on a candidate key"}
	}
	return FormResult{Status: StatusViolationDetected, Message: "one or more non-prime attributes are transitively dependent on a non-superkey determinant", Violations: violations}
}

func analyzeBCNF(u schema.AttrSet, f schema.FDSet, keys []schema.AttrSet) FormResult {
	var violations []Violation
	for _, dep := range f.List() {
		if dep.Dependents.IsSubsetOf(dep.Determinants) {
			continue
		}
		if fd.IsSuperkey(dep.Determinants, f, u) {
			continue
		}
		rhs := dep.Dependents.Minus(dep.Determinants)
		violations = append(violations, Violation{
			Determinants: dep.Determinants,
			Dependents:   rhs,
			Description:  fmt.Sprintf("non-superkey determinant %s -> %s", dep.Determinants.Key(), rhs.Key()),
		})
	}

	if len(violations) == 0 {
		return FormResult{Status: StatusCompliant, Message: "every determinant of a nontrivial FD is a superkey"}
	}
	return FormResult{Status: StatusViolationDetected, Message: "one or more nontrivial FDs have a non-superkey determinant", Violations: violations}
}
