package categorytree

import (
	"reflect"
	"testing"
)

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestVisibleRows_CollapsedShowsRoots(t *testing.T) {
	idx := mustBuild(t, sampleForest())
	rows := VisibleRows(idx, nil)
	if got := rowIDs(rows); !reflect.DeepEqual(got, []string{"electronics", "garden"}) {
		t.Fatalf("expected only roots, got %v", got)
	}
	if !rows[0].HasChildren || rows[0].Expanded {
		t.Errorf("expected collapsed internal root, got %+v", rows[0])
	}
	if rows[1].HasChildren {
		t.Errorf("expected leaf root, got %+v", rows[1])
	}
}

func TestVisibleRows_PartialExpansion(t *testing.T) {
	idx := mustBuild(t, sampleForest())
	// phones is expanded but hidden behind a collapsed parent.
	rows := VisibleRows(idx, NewExpandSet("phones"))
	if got := rowIDs(rows); !reflect.DeepEqual(got, []string{"electronics", "garden"}) {
		t.Errorf("expected hidden expansion to stay hidden, got %v", got)
	}

	rows = VisibleRows(idx, NewExpandSet("electronics"))
	if got := rowIDs(rows); !reflect.DeepEqual(got, []string{"electronics", "phones", "laptops", "garden"}) {
		t.Errorf("unexpected rows %v", got)
	}
	if rows[1].Depth != 1 {
		t.Errorf("expected depth 1 for phones, got %d", rows[1].Depth)
	}
}

func TestVisibleRows_ExpandAll(t *testing.T) {
	idx := mustBuild(t, sampleForest())
	rows := VisibleRows(idx, ExpandAll(idx))
	if got := rowIDs(rows); !reflect.DeepEqual(got, idx.Order()) {
		t.Errorf("expected every node, got %v", got)
	}
}

func TestExpandSet_ToggleReturnsNewValue(t *testing.T) {
	orig := NewExpandSet("electronics")
	next := orig.Toggle("phones")
	if orig.Has("phones") {
		t.Error("Toggle mutated the original set")
	}
	if !next.Has("phones") || !next.Has("electronics") {
		t.Errorf("unexpected toggled set %v", next.IDs())
	}
	back := next.Toggle("phones")
	if back.Has("phones") {
		t.Error("expected second toggle to collapse")
	}
}

func TestExpandSet_ExpandTo(t *testing.T) {
	idx := mustBuild(t, sampleForest())
	s := ExpandSet(nil).ExpandTo(idx, "iphone")
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"electronics", "phones"}) {
		t.Errorf("unexpected expansion %v", got)
	}
	rows := VisibleRows(idx, s)
	found := false
	for _, r := range rows {
		if r.ID == "iphone" {
			found = true
		}
	}
	if !found {
		t.Error("expected iphone to be visible")
	}
}
