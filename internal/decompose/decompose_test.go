package decompose

import (
	"testing"

	"github.com/skeema/normalizeworkbench/internal/fd"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

func set(names ...string) schema.AttrSet { return schema.NewAttrSet(names...) }

// Scenario 4 (spec §8): R(A,B,C,D,E), F={A->B, BC->D, D->E}.
// Expect R1(A,B) PK A; R2(B,C,D) PK BC; R3(D,E) PK D; plus a CK-carrier
// R4(A,C) PK {A,C} since none of R1/R2/R3 contains the CK.
func TestSynthesize3NF_Scenario4(t *testing.T) {
	u := set("A", "B", "C", "D", "E")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A"), Dependents: set("B")},
		schema.FD{Determinants: set("B", "C"), Dependents: set("D")},
		schema.FD{Determinants: set("D"), Dependents: set("E")},
	)
	result := Synthesize3NF("r", u, f)

	if len(result.LostFDs) != 0 {
		t.Fatalf("3NF synthesis must preserve every FD, lost: %v", result.LostFDs)
	}

	var covered schema.AttrSet = schema.NewAttrSet()
	for _, t := range result.Tables {
		covered = covered.Union(t.Attributes)
	}
	if !u.IsSubsetOf(covered) {
		t.Fatalf("synthesis must cover every attribute of U, covered=%v want=%v", covered.Sorted(), u.Sorted())
	}

	foundCKCarrier := false
	for _, tbl := range result.Tables {
		if tbl.Attributes.Equals(set("A", "C")) {
			foundCKCarrier = true
		}
	}
	if !foundCKCarrier {
		t.Fatalf("expected a CK-carrier sub-schema {A,C}, got tables: %+v", result.Tables)
	}
}

func TestSynthesize3NF_LosslessCKContainment(t *testing.T) {
	// Lossless-join check via the CK-containment shortcut of spec §8: some
	// sub-schema must contain a candidate key of R.
	u := set("A", "B")
	f := schema.NewFDSet(schema.FD{Determinants: set("A"), Dependents: set("B")})
	result := Synthesize3NF("r", u, f)
	found := false
	for _, tbl := range result.Tables {
		if set("A").IsSubsetOf(tbl.Attributes) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected some sub-schema to contain candidate key {A}")
	}
}

// Scenario 5 (spec §8): R(S,I,P) with F={SI->P, P->I}.
// Expect R1(P,I) PK P; R2(S,P) PK {S,P}; lost_fds contains SI->P.
func TestAnalyzeBCNF_Scenario5(t *testing.T) {
	u := set("S", "I", "P")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("S", "I"), Dependents: set("P")},
		schema.FD{Determinants: set("P"), Dependents: set("I")},
	)
	result, err := AnalyzeBCNF("r", u, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTables := map[string]bool{"I,P": true, "P,S": true}
	if len(result.Tables) != 2 {
		t.Fatalf("expected 2 sub-schemas, got %d: %+v", len(result.Tables), result.Tables)
	}
	for _, tbl := range result.Tables {
		if !wantTables[tbl.Attributes.Key()] {
			t.Fatalf("unexpected sub-schema attributes %v", tbl.Attributes.Key())
		}
	}

	if len(result.LostFDs) != 1 {
		t.Fatalf("expected exactly 1 lost FD, got %v", result.LostFDs)
	}
	lost := result.LostFDs[0]
	if !lost.Determinants.Equals(set("S", "I")) || !lost.Dependents.Equals(set("P")) {
		t.Fatalf("expected lost FD SI->P, got %s", lost)
	}
}

func TestAnalyzeBCNF_EveryTableIsBCNF(t *testing.T) {
	u := set("S", "I", "P")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("S", "I"), Dependents: set("P")},
		schema.FD{Determinants: set("P"), Dependents: set("I")},
	)
	result, err := AnalyzeBCNF("r", u, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tbl := range result.Tables {
		fs := fd.ProjectFDs(f, tbl.Attributes, u)
		if v, found := findBCNFViolation(tbl.Attributes, fs); found {
			t.Fatalf("sub-schema %s is not in BCNF: %s", tbl.Name, v)
		}
		if tbl.PrimaryKey.IsEmpty() {
			t.Fatalf("sub-schema %s missing primary key", tbl.Name)
		}
	}
}

func TestAnalyzeBCNF_AlreadyBCNF_NoSplit(t *testing.T) {
	u := set("A", "B")
	f := schema.NewFDSet(schema.FD{Determinants: set("A"), Dependents: set("B")})
	result, err := AnalyzeBCNF("r", u, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Tables) != 1 {
		t.Fatalf("expected no split for an already-BCNF relation, got %d tables", len(result.Tables))
	}
	if len(result.LostFDs) != 0 {
		t.Fatalf("expected no lost FDs, got %v", result.LostFDs)
	}
}
