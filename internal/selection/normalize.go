package selection

import (
	"sort"

	"github.com/dgallion1/shopadmin/internal/categorytree"
)

// Normalize reduces any selection to canonical form: the minimal antichain
// of ids covering the same leaves. A node whose children are all covered
// is merged up into itself; ids below a selected node are dropped. Ids not
// in the index are dropped as well.
//
// The result is in index pre-order and is never nil. Normalize is
// idempotent.
func Normalize(idx *categorytree.Index, selection []string) []string {
	out, _ := NormalizeReport(idx, selection)
	return out
}

// NormalizeReport is Normalize that also returns the ids it dropped because
// the index does not know them.
func NormalizeReport(idx *categorytree.Index, selection []string) (canonical, unknown []string) {
	s := newSet(selection)
	for id := range s {
		if !idx.Contains(id) {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	return normalize(idx, s), unknown
}

// normalize is a bottom-up pass. Reverse pre-order visits every child
// before its parent, so no recursion is needed.
func normalize(idx *categorytree.Index, s set) []string {
	order := idx.Order()
	covered := make([]bool, len(order))

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if s.has(id) {
			covered[i] = true
			continue
		}
		children := idx.Children(id)
		if len(children) == 0 {
			continue
		}
		all := true
		for _, c := range children {
			if !covered[idx.Position(c)] {
				all = false
				break
			}
		}
		covered[i] = all
	}

	out := []string{}
	for i := 0; i < len(order); {
		if covered[i] {
			out = append(out, order[i])
			i += idx.SubtreeSize(order[i]) + 1
			continue
		}
		i++
	}
	return out
}

// Leaves expands a selection into the leaf ids it covers, in pre-order.
// Hosts use it to turn a compact selection into a filter query.
func Leaves(idx *categorytree.Index, selection []string) []string {
	out := []string{}
	for _, id := range Normalize(idx, selection) {
		out = append(out, idx.Leaves(id)...)
	}
	return out
}
