package selection

import "github.com/dgallion1/shopadmin/internal/categorytree"

// ToggleOption adjusts a single toggle.
type ToggleOption func(*toggleOptions)

type toggleOptions struct {
	parent    string
	hasParent bool
}

// WithParent passes the caller's idea of the target's parent. The toggle
// fails with *ParentMismatchError if the index disagrees, which catches a
// picker rendered from a stale forest.
func WithParent(id string) ToggleOption {
	return func(o *toggleOptions) {
		o.parent = id
		o.hasParent = true
	}
}

func checkParent(idx *categorytree.Index, target string, o toggleOptions) error {
	if !o.hasParent {
		return nil
	}
	if !idx.Contains(o.parent) {
		return &UnknownIDError{ID: o.parent}
	}
	actual, _ := idx.Parent(target)
	if actual != o.parent {
		return &ParentMismatchError{ID: target, Parent: o.parent, Actual: actual}
	}
	return nil
}

// toggleCandidate computes the raw set after a click on target. The result
// may violate the antichain invariant and must be normalized. Cases are
// checked in order:
//
//  1. internal target selected: drop it and its descendants.
//  2. internal target not selected: drop its descendants, add it.
//  3. leaf target selected: drop it.
//  4. leaf target whose parent is selected: replace the parent with the
//     leaf's siblings.
//  5. any other leaf: add it.
//
// A leaf covered only through a grandparent, or an internal node covered
// by an ancestor, falls into an adding case and normalizes back to the
// unchanged selection.
func toggleCandidate(idx *categorytree.Index, s set, target string) set {
	out := s.clone()

	if !idx.IsLeaf(target) {
		for _, d := range idx.Descendants(target) {
			out.remove(d)
		}
		if out.has(target) {
			out.remove(target)
		} else {
			out.add(target)
		}
		return out
	}

	if out.has(target) {
		out.remove(target)
		return out
	}
	if p, ok := idx.Parent(target); ok && out.has(p) {
		out.remove(p)
		for _, c := range idx.Children(p) {
			if c != target {
				out.add(c)
			}
		}
		return out
	}
	out.add(target)
	return out
}
