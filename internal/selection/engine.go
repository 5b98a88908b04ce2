// Package selection implements hierarchical multi-select over a category
// forest. A selection is a set of ids meaning "every leaf reachable from any
// member"; in canonical form no member is an ancestor of another.
//
// All functions are pure: they read an immutable index, never modify their
// input slices, and return new values. Callers serialize toggles by
// applying each one to the result of the previous.
package selection

import (
	"github.com/dgallion1/shopadmin/internal/categorytree"
)

// Engine binds the selection operations to one index.
type Engine struct {
	idx *categorytree.Index
}

// New returns an Engine over idx.
func New(idx *categorytree.Index) *Engine {
	return &Engine{idx: idx}
}

// Index returns the underlying index.
func (e *Engine) Index() *categorytree.Index {
	return e.idx
}

// Toggle applies one click on target to current and returns the canonical
// result. Membership cases are decided on current as given; unknown ids in
// it are dropped by the final normalization.
func (e *Engine) Toggle(current []string, target string, opts ...ToggleOption) ([]string, error) {
	if !e.idx.Contains(target) {
		return nil, &UnknownIDError{ID: target}
	}
	var o toggleOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkParent(e.idx, target, o); err != nil {
		return nil, err
	}

	return normalize(e.idx, toggleCandidate(e.idx, newSet(current), target)), nil
}

// Apply toggles each target in order, each against the previous result.
// On error the selection is unchanged.
func (e *Engine) Apply(current []string, targets ...string) ([]string, error) {
	sel := e.Normalize(current)
	for _, t := range targets {
		next, err := e.Toggle(sel, t)
		if err != nil {
			return e.Normalize(current), err
		}
		sel = next
	}
	return sel, nil
}

// Normalize returns the canonical form of current.
func (e *Engine) Normalize(current []string) []string {
	return Normalize(e.idx, current)
}

// IsCovered reports whether id is selected, directly or via an ancestor.
func (e *Engine) IsCovered(current []string, id string) (bool, error) {
	return IsCovered(e.idx, e.Normalize(current), id)
}

// Coverage returns the render state of every node.
func (e *Engine) Coverage(current []string) map[string]State {
	return Coverage(e.idx, e.Normalize(current))
}

// Leaves returns the leaf ids covered by current.
func (e *Engine) Leaves(current []string) []string {
	return Leaves(e.idx, current)
}

// View returns the visible picker rows with their states.
func (e *Engine) View(current []string, expanded categorytree.ExpandSet) []ViewRow {
	return View(e.idx, e.Normalize(current), expanded)
}

// ToggleSelection is the one-shot form of Engine.Toggle: it indexes forest,
// applies the toggle and returns the new canonical selection.
func ToggleSelection(target string, current []string, forest []*categorytree.Node) ([]string, error) {
	idx, err := categorytree.Build(forest)
	if err != nil {
		return nil, err
	}
	return New(idx).Toggle(current, target)
}
