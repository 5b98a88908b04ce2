package outline

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/shopadmin/internal/categorytree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown outlines using goldmark. Headings nest by
// level; bullet and numbered lists nest under the current heading.
//
//	# Apparel
//	- Shirts
//	  - Tees {#tees}
//	## Shoes
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]*categorytree.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	b := newBuilder()
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := inlineText(node, src)
			if title == "" {
				continue
			}
			b.push(node.Level, title)
		case *ast.List:
			addMarkdownList(b, b.top(), node, src)
		}
	}
	return b.forest(), nil
}

// addMarkdownList adds every item of list under parent. Nested lists
// recurse; depth is bounded by the document's list nesting.
func addMarkdownList(b *builder, parent *categorytree.Node, list *ast.List, src []byte) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		li, ok := item.(*ast.ListItem)
		if !ok {
			continue
		}
		var node *categorytree.Node
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			switch block := c.(type) {
			case *ast.TextBlock, *ast.Paragraph:
				if node != nil {
					continue
				}
				if title := inlineText(block, src); title != "" {
					node = b.child(parent, title)
				}
			case *ast.List:
				under := node
				if under == nil {
					under = parent
				}
				addMarkdownList(b, under, block, src)
			}
		}
	}
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
