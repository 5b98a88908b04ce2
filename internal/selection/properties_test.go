package selection

import (
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/dgallion1/shopadmin/internal/categorytree"
	"pgregory.net/rapid"
)

// forestGen draws a random forest of up to 40 nodes. Node i attaches to a
// uniformly chosen earlier node or becomes a root.
func forestGen() *rapid.Generator[[]*categorytree.Node] {
	return rapid.Custom(func(t *rapid.T) []*categorytree.Node {
		n := rapid.IntRange(1, 40).Draw(t, "nodes")
		nodes := make([]*categorytree.Node, n)
		var roots []*categorytree.Node
		for i := range n {
			nodes[i] = &categorytree.Node{ID: fmt.Sprintf("c%d", i), Title: fmt.Sprintf("Category %d", i)}
			parent := rapid.IntRange(-1, i-1).Draw(t, fmt.Sprintf("parent%d", i))
			if parent < 0 {
				roots = append(roots, nodes[i])
				continue
			}
			nodes[parent].Children = append(nodes[parent].Children, nodes[i])
		}
		return roots
	})
}

func drawIndex(t *rapid.T) *categorytree.Index {
	idx, err := categorytree.Build(forestGen().Draw(t, "forest"))
	if err != nil {
		t.Fatalf("generated forest failed to build: %v", err)
	}
	return idx
}

// drawCandidate draws an arbitrary subset of ids, occasionally with ids the
// index does not know.
func drawCandidate(t *rapid.T, idx *categorytree.Index) []string {
	ids := idx.Order()
	sel := rapid.SliceOfN(rapid.SampledFrom(ids), 0, len(ids)).Draw(t, "candidate")
	if rapid.Bool().Draw(t, "withUnknown") {
		sel = append(sel, "not-in-forest")
	}
	return sel
}

func coveredLeaves(idx *categorytree.Index, sel []string) map[string]bool {
	out := make(map[string]bool)
	for _, id := range sel {
		for _, l := range idx.Leaves(id) {
			out[l] = true
		}
	}
	return out
}

func sameSet(a, b []string) bool {
	a = append([]string(nil), a...)
	b = append([]string(nil), b...)
	sort.Strings(a)
	sort.Strings(b)
	return reflect.DeepEqual(a, b)
}

func TestProperty_NormalizeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := drawIndex(t)
		once := Normalize(idx, drawCandidate(t, idx))
		twice := Normalize(idx, once)
		if !sameSet(once, twice) {
			t.Fatalf("normalize(normalize(x)) = %v, normalize(x) = %v", twice, once)
		}
	})
}

func TestProperty_NormalizeIsAntichainOverSameLeaves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := drawIndex(t)
		cand := drawCandidate(t, idx)
		canon := Normalize(idx, cand)

		for i, a := range canon {
			for j, b := range canon {
				if i != j && idx.IsAncestor(a, b) {
					t.Fatalf("%s is an ancestor of %s in %v", a, b, canon)
				}
			}
		}

		known := cand[:0:0]
		for _, id := range cand {
			if idx.Contains(id) {
				known = append(known, id)
			}
		}
		if !reflect.DeepEqual(coveredLeaves(idx, canon), coveredLeaves(idx, known)) {
			t.Fatalf("leaf coverage changed: %v -> %v", known, canon)
		}
	})
}

func TestProperty_CoverageEquivalence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := drawIndex(t)
		canon := Normalize(idx, drawCandidate(t, idx))
		leaves := coveredLeaves(idx, canon)
		states := Coverage(idx, canon)

		for _, id := range idx.Order() {
			all := true
			some := false
			for _, l := range idx.Leaves(id) {
				if leaves[l] {
					some = true
				} else {
					all = false
				}
			}
			got, err := IsCovered(idx, canon, id)
			if err != nil {
				t.Fatalf("IsCovered(%s): %v", id, err)
			}
			if got != all {
				t.Fatalf("IsCovered(%s) = %v, leaf subset = %v, selection %v", id, got, all, canon)
			}
			want := Unchecked
			switch {
			case all:
				want = Checked
			case some:
				want = Partial
			}
			if states[id] != want {
				t.Fatalf("Coverage[%s] = %v, want %v", id, states[id], want)
			}
		}
	})
}

// flips reports whether clicking target changes its coverage: it is
// selected, uncovered, or a leaf whose parent is selected. Any other click
// lands under a selected ancestor and leaves the selection as it was.
func flips(idx *categorytree.Index, canon []string, target string) bool {
	in := newSet(canon)
	if in.has(target) {
		return true
	}
	if covered, _ := IsCovered(idx, canon, target); !covered {
		return true
	}
	p, ok := idx.Parent(target)
	return ok && idx.IsLeaf(target) && in.has(p)
}

func TestProperty_ToggleFlipsLeafCoverage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := drawIndex(t)
		e := New(idx)
		before := e.Normalize(drawCandidate(t, idx))
		target := rapid.SampledFrom(idx.Order()).Draw(t, "target")
		wasCovered, _ := IsCovered(idx, before, target)

		after, err := e.Toggle(before, target)
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		if !sameSet(after, Normalize(idx, after)) {
			t.Fatalf("toggle result %v is not canonical", after)
		}
		if !flips(idx, before, target) {
			if !reflect.DeepEqual(after, before) {
				t.Fatalf("toggle %s under a selected ancestor changed %v to %v", target, before, after)
			}
			return
		}

		want := coveredLeaves(idx, before)
		for _, l := range idx.Leaves(target) {
			if wasCovered {
				delete(want, l)
			} else {
				want[l] = true
			}
		}
		if !reflect.DeepEqual(coveredLeaves(idx, after), want) {
			t.Fatalf("toggle %s on %v gave %v", target, before, after)
		}
		nowCovered, _ := IsCovered(idx, after, target)
		if nowCovered == wasCovered {
			t.Fatalf("toggle %s did not flip coverage (%v)", target, nowCovered)
		}
	})
}

func TestProperty_RoundTripToggle(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := drawIndex(t)
		e := New(idx)
		start := e.Normalize(drawCandidate(t, idx))
		target := rapid.SampledFrom(idx.Order()).Draw(t, "target")

		// A partially covered internal node becomes fully selected on the
		// first click, so only whole states round-trip.
		if Coverage(idx, start)[target] == Partial || !flips(idx, start, target) {
			return
		}

		mid, err := e.Toggle(start, target)
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		// Selecting a leaf can merge up past its parent; the second click
		// then lands under a grandparent and keeps it.
		if !flips(idx, mid, target) {
			return
		}
		end, err := e.Toggle(mid, target)
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		if !reflect.DeepEqual(start, end) {
			t.Fatalf("round trip on %s: %v -> %v -> %v", target, start, mid, end)
		}
	})
}

func TestProperty_BuildAcceptsGeneratedForests(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := drawIndex(t)
		stats := idx.Stats()
		if stats.Nodes != idx.Len() || stats.Roots != len(idx.Roots()) {
			t.Fatalf("inconsistent stats %+v", stats)
		}
		leaves := 0
		for _, r := range idx.Roots() {
			leaves += idx.LeafCount(r)
		}
		if leaves != stats.Leaves {
			t.Fatalf("root leaf counts sum to %d, stats report %d", leaves, stats.Leaves)
		}
	})
}
