package outline

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/shopadmin/internal/categorytree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML outlines. Headings nest by level and nested
// <ul>/<ol> lists nest under the current heading. An id or data-id
// attribute on a heading or <li> becomes the category id.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) ([]*categorytree.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := newBuilder()

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if title := textContent(n); title != "" {
					b.push(level, withExplicitID(title, n))
				}
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "ul", "ol":
				addHTMLList(b, b.top(), n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return b.forest(), nil
}

func addHTMLList(b *builder, parent *categorytree.Node, list *html.Node) {
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		under := parent
		if title := ownText(li); title != "" {
			under = b.child(parent, withExplicitID(title, li))
		}
		for _, nested := range nestedLists(li) {
			addHTMLList(b, under, nested)
		}
	}
}

// ownText is the text of an <li> excluding nested lists.
func ownText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				continue
			}
			if c.Type == html.TextNode {
				buf.WriteString(c.Data)
				buf.WriteByte(' ')
			}
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// nestedLists finds the lists directly owned by an <li>, looking through
// wrapper elements but not into other lists.
func nestedLists(li *html.Node) []*html.Node {
	var out []*html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.Data == "ul" || c.Data == "ol" {
				out = append(out, c)
				continue
			}
			find(c)
		}
	}
	find(li)
	return out
}

func withExplicitID(title string, n *html.Node) string {
	for _, key := range []string{"data-id", "id"} {
		for _, a := range n.Attr {
			if a.Key == key && strings.TrimSpace(a.Val) != "" {
				return title + " {#" + strings.TrimSpace(a.Val) + "}"
			}
		}
	}
	return title
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
