package outline

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/shopadmin/internal/categorytree"
)

// TextParser handles indented plain-text outlines. Each non-blank line is a
// category; a line indented deeper than the previous one is its child. A
// tab counts as four spaces and leading bullets ("-", "*", "+") are
// stripped.
//
//	Apparel
//	  Shirts
//	    Tees {#tees}
//	Toys
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]*categorytree.Node, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newBuilder()
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent, title := splitIndent(line)
		if title == "" {
			continue
		}
		b.push(indent, title)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.forest(), nil
}

func splitIndent(line string) (int, string) {
	indent := 0
	i := 0
loop:
	for ; i < len(line); i++ {
		switch line[i] {
		case ' ':
			indent++
		case '\t':
			indent += 4
		default:
			break loop
		}
	}
	title := strings.TrimSpace(line[i:])
	for _, bullet := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(title, bullet) {
			title = strings.TrimSpace(title[len(bullet):])
			break
		}
	}
	return indent, title
}
