package fd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

func set(names ...string) schema.AttrSet { return schema.NewAttrSet(names...) }

func keysOf(sets []schema.AttrSet) []string {
	out := make([]string, len(sets))
	for i, s := range sets {
		out[i] = s.Key()
	}
	return out
}

// Scenario 1 (spec §8): U={A,B,C,D,E}, F={A->B, B->C, CD->E}.
// Closure({A,D}) = {A,B,C,D,E}; {A,D} is a CK.
func TestClosure_Scenario1(t *testing.T) {
	u := set("A", "B", "C", "D", "E")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A"), Dependents: set("B")},
		schema.FD{Determinants: set("B"), Dependents: set("C")},
		schema.FD{Determinants: set("C", "D"), Dependents: set("E")},
	)
	got := Closure(set("A", "D"), f, u)
	if !got.Equals(u) {
		t.Fatalf("Closure({A,D}) = %v, want %v", got.Sorted(), u.Sorted())
	}
	if !IsSuperkey(set("A", "D"), f, u) {
		t.Fatal("{A,D} should be a superkey")
	}
}

func TestClosure_EmptySet(t *testing.T) {
	u := set("A", "B")
	f := schema.NewFDSet(schema.FD{Determinants: set("A"), Dependents: set("B")})
	got := Closure(schema.NewAttrSet(), f, u)
	if !got.IsEmpty() {
		t.Fatalf("Closure(empty) = %v, want empty", got.Sorted())
	}
}

func TestClosure_Monotonic_Idempotent_Extensive(t *testing.T) {
	u := set("A", "B", "C", "D", "E")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A"), Dependents: set("B")},
		schema.FD{Determinants: set("B"), Dependents: set("C")},
		schema.FD{Determinants: set("C", "D"), Dependents: set("E")},
	)
	x := set("A")
	y := set("A", "D")
	cx := Closure(x, f, u)
	cy := Closure(y, f, u)

	if !x.IsSubsetOf(cx) {
		t.Fatal("closure must be extensive: X subset of Closure(X)")
	}
	if !cx.IsSubsetOf(cy) {
		t.Fatal("X subset Y must imply Closure(X) subset Closure(Y)")
	}
	cxx := Closure(cx, f, u)
	if !cxx.Equals(cx) {
		t.Fatal("closure must be idempotent")
	}
}

// Scenario 2 (spec §8): U={A,B,C}, F={AB->C, C->B}. CKs = {{A,B},{A,C}}.
func TestCandidateKeys_Scenario2(t *testing.T) {
	u := set("A", "B", "C")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A", "B"), Dependents: set("C")},
		schema.FD{Determinants: set("C"), Dependents: set("B")},
	)
	got := CandidateKeys(u, f)
	want := map[string]bool{"A,B": true, "A,C": true}
	if len(got) != len(want) {
		t.Fatalf("got %v keys, want %v", keysOf(got), want)
	}
	for _, k := range got {
		if !want[k.Key()] {
			t.Fatalf("unexpected candidate key %v", k.Key())
		}
	}
}

func TestCandidateKeys_IsAntichain(t *testing.T) {
	u := set("A", "B", "C")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A", "B"), Dependents: set("C")},
		schema.FD{Determinants: set("C"), Dependents: set("B")},
	)
	keys := CandidateKeys(u, f)
	for i, a := range keys {
		for j, b := range keys {
			if i == j {
				continue
			}
			if a.IsSubsetOf(b) {
				t.Fatalf("%v is a subset of %v, not an antichain", a.Key(), b.Key())
			}
		}
	}
}

func TestCandidateKeys_EverySuperkeyContainsACK(t *testing.T) {
	u := set("A", "B", "C")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A", "B"), Dependents: set("C")},
		schema.FD{Determinants: set("C"), Dependents: set("B")},
	)
	keys := CandidateKeys(u, f)
	superkey := set("A", "B", "C")
	found := false
	for _, k := range keys {
		if k.IsSubsetOf(superkey) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected some candidate key to be a subset of the full-universe superkey")
	}
}

// Scenario 3 (spec §8): F={A->BC, B->C, A->B, AB->C}.
// MinimalCover yields (up to RHS coalescing) {A->B, B->C}.
func TestMinimalCover_Scenario3(t *testing.T) {
	u := set("A", "B", "C")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A"), Dependents: set("B", "C")},
		schema.FD{Determinants: set("B"), Dependents: set("C")},
		schema.FD{Determinants: set("A"), Dependents: set("B")},
		schema.FD{Determinants: set("A", "B"), Dependents: set("C")},
	)
	mc := MinimalCover(f, u)
	got := mc.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 FDs in minimal cover, got %d: %v", len(got), got)
	}
	byDet := map[string]string{}
	for _, d := range got {
		byDet[d.Determinants.Key()] = d.Dependents.Key()
	}
	if byDet["A"] != "B" || byDet["B"] != "C" {
		t.Fatalf("unexpected minimal cover %v", byDet)
	}
}

func TestMinimalCover_LogicallyEquivalent(t *testing.T) {
	u := set("A", "B", "C")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A"), Dependents: set("B", "C")},
		schema.FD{Determinants: set("B"), Dependents: set("C")},
		schema.FD{Determinants: set("A"), Dependents: set("B")},
		schema.FD{Determinants: set("A", "B"), Dependents: set("C")},
	)
	mc := MinimalCover(f, u)
	for _, dep := range f.List() {
		for _, a := range dep.Dependents.Sorted() {
			if !Closure(dep.Determinants, mc, u).Contains(a) {
				t.Fatalf("minimal cover does not imply original FD %s -> %s", dep.Determinants.Key(), a)
			}
		}
	}
	for _, dep := range mc.List() {
		for _, a := range dep.Dependents.Sorted() {
			if !Closure(dep.Determinants, f, u).Contains(a) {
				t.Fatalf("minimal cover implies an FD not in the original: %s -> %s", dep.Determinants.Key(), a)
			}
		}
	}
}

func TestMinimalCover_SingletonRHS(t *testing.T) {
	u := set("A", "B", "C")
	f := schema.NewFDSet(schema.FD{Determinants: set("A"), Dependents: set("B", "C")})
	mc := MinimalCover(f, u)
	for _, dep := range mc.List() {
		if dep.Dependents.Len() != 1 {
			t.Fatalf("expected singleton RHS, got %v", dep.Dependents.Key())
		}
	}
}

func TestProjectFDs_RequiresClosureNotShortcut(t *testing.T) {
	// R(S,I,P) with F={SI->P, P->I} from scenario 5; projecting onto {S,P}
	// must reveal SI->P implies S,P -> nothing new directly, but P's
	// closure over F includes I, so projecting {P} onto subschema {S,P}
	// should still find P as a determinant for nothing beyond what's in S
	// (I is excluded from S). We instead check a case where the shortcut
	// would miss an induced dependency: U={A,B,C}, F={A->B,B->C}, S={A,C}.
	// Closure(A,F,U)={A,B,C}; projected onto S gives A -> C, which neither
	// original FD states directly on S alone (the shortcut Y∩S for A->B
	// yields A -> {} since B not in S).
	u := set("A", "B", "C")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A"), Dependents: set("B")},
		schema.FD{Determinants: set("B"), Dependents: set("C")},
	)
	s := set("A", "C")
	proj := ProjectFDs(f, s, u)
	got, ok := proj[set("A").Key()]
	if !ok || !got.Dependents.Equals(set("C")) {
		t.Fatalf("expected closure-based projection to find A -> C, got %v", proj.List())
	}
}

func TestIsPreserved(t *testing.T) {
	subs := []schema.AttrSet{set("A", "B"), set("B", "C", "D")}
	if !IsPreserved(set("A"), set("B"), subs) {
		t.Fatal("A->B should be preserved by {A,B}")
	}
	if IsPreserved(set("A"), set("C"), subs) {
		t.Fatal("A->C should not be preserved by either sub-schema")
	}
}

func TestCandidateKeys_PartitionedMatchesNaive(t *testing.T) {
	u := set("A", "B", "C", "D", "E")
	f := schema.NewFDSet(
		schema.FD{Determinants: set("A"), Dependents: set("B")},
		schema.FD{Determinants: set("B", "C"), Dependents: set("D")},
		schema.FD{Determinants: set("D"), Dependents: set("E")},
	)
	naive := candidateKeysNaive(u, f)
	partitioned := candidateKeysPartitioned(u, f)
	less := func(a, b schema.AttrSet) bool { return a.Key() < b.Key() }
	diff := cmp.Diff(keysOfSorted(naive, less), keysOfSorted(partitioned, less))
	if diff != "" {
		t.Fatalf("partitioned algorithm diverged from naive scan (-naive +partitioned):\n%s", diff)
	}
}

func keysOfSorted(sets []schema.AttrSet, less func(a, b schema.AttrSet) bool) []string {
	cpy := make([]schema.AttrSet, len(sets))
	copy(cpy, sets)
	for i := 1; i < len(cpy); i++ {
		for j := i; j > 0 && less(cpy[j], cpy[j-1]); j-- {
			cpy[j-1], cpy[j] = cpy[j], cpy[j-1]
		}
	}
	out := make([]string, len(cpy))
	for i, s := range cpy {
		out[i] = s.Key()
	}
	return out
}
