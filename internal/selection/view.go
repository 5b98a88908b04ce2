package selection

import "github.com/dgallion1/shopadmin/internal/categorytree"

// ViewRow is a visible picker row with its checkbox state.
type ViewRow struct {
	categorytree.Row
	State  State `json:"state"`
	Leaves int   `json:"leaves"`
}

// View joins the visible rows for expanded with the coverage of selection.
// Expansion and selection stay independent: collapsing a node never
// changes what is selected.
func View(idx *categorytree.Index, selection []string, expanded categorytree.ExpandSet) []ViewRow {
	states := Coverage(idx, selection)
	rows := categorytree.VisibleRows(idx, expanded)
	out := make([]ViewRow, len(rows))
	for i, r := range rows {
		out[i] = ViewRow{Row: r, State: states[r.ID], Leaves: idx.LeafCount(r.ID)}
	}
	return out
}
