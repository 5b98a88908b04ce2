package outline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/shopadmin/internal/categorytree"
)

// builder assembles a forest from titles arriving in document order.
//
// Ids are explicit when the title ends in "{#id}", otherwise the slug path
// of the node ("apparel/shirts"). Generated ids that collide get a numeric
// suffix; explicit ids are kept as written so duplicates surface as
// integrity errors.
type builder struct {
	roots []*categorytree.Node
	stack []open
	used  map[string]bool
}

type open struct {
	node  *categorytree.Node
	level int
}

func newBuilder() *builder {
	return &builder{used: make(map[string]bool)}
}

// push adds a node at level (headings, indentation). Entries at the same
// or a deeper level are closed first.
func (b *builder) push(level int, raw string) *categorytree.Node {
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	n := b.child(b.top(), raw)
	b.stack = append(b.stack, open{node: n, level: level})
	return n
}

// top returns the innermost open node, or nil at root level.
func (b *builder) top() *categorytree.Node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1].node
}

// child adds a node directly under parent (nil for a root) without
// touching the level stack.
func (b *builder) child(parent *categorytree.Node, raw string) *categorytree.Node {
	title, id := splitTitle(raw)
	if id == "" {
		id = b.generateID(parent, title)
	} else {
		b.used[id] = true
	}
	n := &categorytree.Node{ID: id, Title: title}
	if parent == nil {
		b.roots = append(b.roots, n)
	} else {
		parent.Children = append(parent.Children, n)
	}
	return n
}

func (b *builder) generateID(parent *categorytree.Node, title string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "untitled"
	}
	base := slug
	if parent != nil {
		base = parent.ID + "/" + slug
	}
	id := base
	for i := 2; b.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	b.used[id] = true
	return id
}

func (b *builder) forest() []*categorytree.Node {
	return b.roots
}

var explicitIDRe = regexp.MustCompile(`^(.*?)\s*\{#([^{}\s]+)\}\s*$`)

// splitTitle separates an explicit "{#id}" suffix from a title.
func splitTitle(raw string) (title, id string) {
	raw = strings.TrimSpace(raw)
	if m := explicitIDRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return raw, ""
}

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashesRe  = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a URL/path-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRe.ReplaceAllString(s, "-")
	s = slugDashesRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	return s
}

// fillIDs assigns generated ids to nodes decoded without one (YAML/JSON).
// It walks with an explicit stack.
func fillIDs(forest []*categorytree.Node) {
	b := newBuilder()
	type item struct {
		node   *categorytree.Node
		parent *categorytree.Node
	}
	stack := make([]item, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, item{node: forest[i]})
	}
	seen := make(map[*categorytree.Node]bool)
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.node == nil || seen[it.node] {
			continue
		}
		seen[it.node] = true
		it.node.Title = strings.TrimSpace(it.node.Title)
		if it.node.ID == "" {
			it.node.ID = b.generateID(it.parent, it.node.Title)
		} else {
			b.used[it.node.ID] = true
		}
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{node: it.node.Children[i], parent: it.node})
		}
	}
}
