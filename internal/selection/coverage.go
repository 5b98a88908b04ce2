package selection

import (
	"fmt"

	"github.com/dgallion1/shopadmin/internal/categorytree"
)

// State is the rendered checkbox state of a node.
type State int

const (
	Unchecked State = iota
	Partial         // Some, not all, leaves covered.
	Checked
)

func (s State) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Partial:
		return "partial"
	case Checked:
		return "checked"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unchecked":
		*s = Unchecked
	case "partial":
		*s = Partial
	case "checked":
		*s = Checked
	default:
		return fmt.Errorf("invalid selection state %q", b)
	}
	return nil
}

// IsCovered reports whether id is in the selection or has an ancestor in
// it. The ancestor chain is precomputed by the index, so this is at most
// depth set lookups.
func IsCovered(idx *categorytree.Index, selection []string, id string) (bool, error) {
	if !idx.Contains(id) {
		return false, &UnknownIDError{ID: id}
	}
	return covered(idx, newSet(selection), id), nil
}

func covered(idx *categorytree.Index, s set, id string) bool {
	if s.has(id) {
		return true
	}
	for _, a := range idx.Ancestors(id) {
		if s.has(a) {
			return true
		}
	}
	return false
}

// Coverage evaluates every node in one pass. A node is Checked when it or
// an ancestor is selected, Partial when it is not but some descendant is.
func Coverage(idx *categorytree.Index, selection []string) map[string]State {
	s := newSet(selection)
	order := idx.Order()
	states := make(map[string]State, len(order))

	for _, id := range order {
		p, hasParent := idx.Parent(id)
		if s.has(id) || (hasParent && states[p] == Checked) {
			states[id] = Checked
		} else {
			states[id] = Unchecked
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if states[id] != Unchecked {
			continue
		}
		for _, c := range idx.Children(id) {
			if states[c] != Unchecked {
				states[id] = Partial
				break
			}
		}
	}
	return states
}
