package categorytree

// Index is a read-only lookup structure over a forest. All queries are
// answered from maps built once by Build; the forest is never walked again.
//
// An Index is immutable and safe for concurrent use.
type Index struct {
	entries   map[string]*entry
	order     []string // Pre-order over all roots.
	leafOrder []string // Leaves in pre-order.
	roots     []string
	maxDepth  int
}

type entry struct {
	node      *Node
	parent    string
	isRoot    bool
	children  []string
	ancestors []string // Root first, parent last.

	pos       int // Position in order.
	size      int // Number of strict descendants.
	leafStart int // Position in leafOrder.
	leafCount int
}

// Build indexes a forest with an explicit-stack traversal. It fails with an
// *IntegrityError on duplicate ids, cycles, nil nodes or empty ids, and
// returns no partial index in that case.
func Build(forest []*Node) (*Index, error) {
	idx := &Index{entries: make(map[string]*entry)}

	type frame struct {
		node *Node
		next int
	}
	onPath := make(map[*Node]bool)

	for _, root := range forest {
		if root == nil {
			return nil, &IntegrityError{Kind: KindNilNode}
		}
		if err := idx.enter(root, nil); err != nil {
			return nil, err
		}
		idx.roots = append(idx.roots, root.ID)
		onPath[root] = true
		stack := []frame{{node: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.node.Children) {
				child := top.node.Children[top.next]
				top.next++
				parent := idx.entries[top.node.ID]
				if child == nil {
					return nil, &IntegrityError{Kind: KindNilNode, ID: top.node.ID}
				}
				if onPath[child] {
					return nil, &IntegrityError{Kind: KindCycle, ID: child.ID}
				}
				if err := idx.enter(child, parent); err != nil {
					return nil, err
				}
				onPath[child] = true
				stack = append(stack, frame{node: child})
				continue
			}

			e := idx.entries[top.node.ID]
			e.size = len(idx.order) - e.pos - 1
			e.leafCount = len(idx.leafOrder) - e.leafStart
			delete(onPath, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	return idx, nil
}

// enter registers n in pre-order position.
func (idx *Index) enter(n *Node, parent *entry) error {
	if n.ID == "" {
		pid := ""
		if parent != nil {
			pid = parent.node.ID
		}
		return &IntegrityError{Kind: KindEmptyID, ID: pid}
	}
	if _, dup := idx.entries[n.ID]; dup {
		return &IntegrityError{Kind: KindDuplicateID, ID: n.ID}
	}

	e := &entry{
		node:      n,
		isRoot:    parent == nil,
		pos:       len(idx.order),
		leafStart: len(idx.leafOrder),
	}
	if len(n.Children) > 0 {
		e.children = make([]string, 0, len(n.Children))
	}
	if parent != nil {
		e.parent = parent.node.ID
		e.ancestors = make([]string, len(parent.ancestors)+1)
		copy(e.ancestors, parent.ancestors)
		e.ancestors[len(parent.ancestors)] = parent.node.ID
		parent.children = append(parent.children, n.ID)
	}
	if d := len(e.ancestors); d > idx.maxDepth {
		idx.maxDepth = d
	}

	idx.entries[n.ID] = e
	idx.order = append(idx.order, n.ID)
	if len(n.Children) == 0 {
		idx.leafOrder = append(idx.leafOrder, n.ID)
	}
	return nil
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Contains reports whether id is in the forest.
func (idx *Index) Contains(id string) bool {
	_, ok := idx.entries[id]
	return ok
}

// Node returns the node for id, or nil.
func (idx *Index) Node(id string) *Node {
	if e, ok := idx.entries[id]; ok {
		return e.node
	}
	return nil
}

// Title returns the title for id, or "".
func (idx *Index) Title(id string) string {
	if e, ok := idx.entries[id]; ok {
		return e.node.Title
	}
	return ""
}

// Roots returns root ids in forest order.
func (idx *Index) Roots() []string {
	return append([]string(nil), idx.roots...)
}

// Order returns every id in pre-order.
func (idx *Index) Order() []string {
	return append([]string(nil), idx.order...)
}

// Position returns the pre-order position of id, or -1.
func (idx *Index) Position(id string) int {
	if e, ok := idx.entries[id]; ok {
		return e.pos
	}
	return -1
}

// Parent returns the parent id. ok is false for roots and unknown ids.
func (idx *Index) Parent(id string) (string, bool) {
	e, found := idx.entries[id]
	if !found || e.isRoot {
		return "", false
	}
	return e.parent, true
}

// Children returns the direct children of id in insertion order.
func (idx *Index) Children(id string) []string {
	if e, ok := idx.entries[id]; ok {
		return append([]string(nil), e.children...)
	}
	return nil
}

// Descendants returns the strict descendants of id in pre-order.
func (idx *Index) Descendants(id string) []string {
	e, ok := idx.entries[id]
	if !ok || e.size == 0 {
		return nil
	}
	return append([]string(nil), idx.order[e.pos+1:e.pos+1+e.size]...)
}

// Leaves returns the leaf descendants of id. A leaf is its own sole leaf.
func (idx *Index) Leaves(id string) []string {
	e, ok := idx.entries[id]
	if !ok {
		return nil
	}
	return append([]string(nil), idx.leafOrder[e.leafStart:e.leafStart+e.leafCount]...)
}

// LeafCount returns len(Leaves(id)) without copying.
func (idx *Index) LeafCount(id string) int {
	if e, ok := idx.entries[id]; ok {
		return e.leafCount
	}
	return 0
}

// Ancestors returns the ancestor chain of id, root first.
func (idx *Index) Ancestors(id string) []string {
	if e, ok := idx.entries[id]; ok {
		return append([]string(nil), e.ancestors...)
	}
	return nil
}

// Depth returns the number of ancestors of id, or -1 if unknown.
func (idx *Index) Depth(id string) int {
	if e, ok := idx.entries[id]; ok {
		return len(e.ancestors)
	}
	return -1
}

// IsLeaf reports whether id is a known node without children.
func (idx *Index) IsLeaf(id string) bool {
	e, ok := idx.entries[id]
	return ok && len(e.children) == 0
}

// SubtreeSize returns the number of strict descendants of id.
func (idx *Index) SubtreeSize(id string) int {
	if e, ok := idx.entries[id]; ok {
		return e.size
	}
	return 0
}

// IsAncestor reports whether a is a strict ancestor of d.
func (idx *Index) IsAncestor(a, d string) bool {
	ea, ok := idx.entries[a]
	if !ok {
		return false
	}
	ed, ok := idx.entries[d]
	if !ok {
		return false
	}
	return ed.pos > ea.pos && ed.pos <= ea.pos+ea.size
}

// Stats summarizes the forest.
func (idx *Index) Stats() Stats {
	return Stats{
		Nodes:    len(idx.order),
		Roots:    len(idx.roots),
		Leaves:   len(idx.leafOrder),
		MaxDepth: idx.maxDepth,
	}
}
