package categorytree

// Node is a category in a fetched forest.
type Node struct {
	ID       string  `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Stats summarizes the shape of an indexed forest.
type Stats struct {
	Nodes    int `json:"nodes"`
	Roots    int `json:"roots"`
	Leaves   int `json:"leaves"`
	MaxDepth int `json:"max_depth"` // Roots are depth 0.
}
