package outline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/shopadmin/internal/categorytree"
)

// CSVParser handles flat category exports with a header row naming the
// columns "id", "parent_id" (or "parent") and "title" (or "name"). Rows may
// come in any order; a row with an empty parent is a root. Without an id
// column, ids are generated from titles and parent_id refers to titles.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]*categorytree.Node, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	idCol, parentCol, titleCol := -1, -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "id":
			idCol = i
		case "parent_id", "parent":
			parentCol = i
		case "title", "name":
			titleCol = i
		}
	}
	if titleCol < 0 {
		return nil, fmt.Errorf("parse csv: header must include a title column")
	}

	cell := func(row []string, col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	type row struct {
		node   *categorytree.Node
		key    string
		parent string
		line   int
	}
	rows := make([]row, 0, len(records)-1)
	byKey := make(map[string]*categorytree.Node, len(records)-1)
	for i, rec := range records[1:] {
		title := cell(rec, titleCol)
		if title == "" {
			continue
		}
		n := &categorytree.Node{ID: cell(rec, idCol), Title: title}
		key := n.ID
		if idCol < 0 {
			key = title
		}
		if _, dup := byKey[key]; dup {
			return nil, &categorytree.IntegrityError{Kind: categorytree.KindDuplicateID, ID: key}
		}
		byKey[key] = n
		rows = append(rows, row{node: n, key: key, parent: cell(rec, parentCol), line: i + 2})
	}

	var forest []*categorytree.Node
	for _, r := range rows {
		if r.parent == "" {
			forest = append(forest, r.node)
			continue
		}
		parent, ok := byKey[r.parent]
		if !ok {
			return nil, fmt.Errorf("parse csv: line %d: unknown parent %q", r.line, r.parent)
		}
		parent.Children = append(parent.Children, r.node)
	}

	// Rows whose parent chain never reaches a root form a cycle.
	reached := make(map[*categorytree.Node]bool, len(rows))
	stack := append([]*categorytree.Node(nil), forest...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reached[n] = true
		stack = append(stack, n.Children...)
	}
	for _, r := range rows {
		if !reached[r.node] {
			return nil, &categorytree.IntegrityError{Kind: categorytree.KindCycle, ID: r.key}
		}
	}

	fillIDs(forest)
	return forest, nil
}
