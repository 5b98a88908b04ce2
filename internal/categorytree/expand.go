package categorytree

import "sort"

// ExpandSet holds which internal nodes are expanded in a picker. It is
// display state only and never affects selection.
//
// Methods that change the set return a new value.
type ExpandSet map[string]struct{}

// NewExpandSet builds a set from ids.
func NewExpandSet(ids ...string) ExpandSet {
	s := make(ExpandSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// ExpandAll returns a set with every internal node expanded.
func ExpandAll(idx *Index) ExpandSet {
	s := make(ExpandSet)
	for _, id := range idx.order {
		if len(idx.entries[id].children) > 0 {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s ExpandSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s ExpandSet) clone() ExpandSet {
	out := make(ExpandSet, len(s)+1)
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Toggle flips id.
func (s ExpandSet) Toggle(id string) ExpandSet {
	out := s.clone()
	if out.Has(id) {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}

// ExpandTo expands every ancestor of id so that id becomes visible.
func (s ExpandSet) ExpandTo(idx *Index, id string) ExpandSet {
	out := s.clone()
	for _, a := range idx.Ancestors(id) {
		out[a] = struct{}{}
	}
	return out
}

// IDs returns the members sorted.
func (s ExpandSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Row is one visible line of a tree picker.
type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Depth       int    `json:"depth"`
	HasChildren bool   `json:"has_children"`
	Expanded    bool   `json:"expanded"`
}

// VisibleRows flattens the forest into the rows a picker shows. Roots are
// always visible; children only under expanded parents.
func VisibleRows(idx *Index, expanded ExpandSet) []Row {
	var rows []Row
	for i := 0; i < len(idx.order); {
		id := idx.order[i]
		e := idx.entries[id]
		open := len(e.children) > 0 && expanded.Has(id)
		rows = append(rows, Row{
			ID:          id,
			Title:       e.node.Title,
			Depth:       len(e.ancestors),
			HasChildren: len(e.children) > 0,
			Expanded:    open,
		})
		if open {
			i++
		} else {
			i += e.size + 1
		}
	}
	return rows
}
