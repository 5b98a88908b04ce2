package outline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/shopadmin/internal/categorytree"
)

// JSONParser decodes the same shapes as YAMLParser: a bare array of nodes or
// an object with a "categories" array, which is also what the catalog's
// tree endpoint returns.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) ([]*categorytree.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var forest []*categorytree.Node
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &forest); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case '{':
		var wrapped struct {
			Categories []*categorytree.Node `json:"categories"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		forest = wrapped.Categories
	default:
		return nil, fmt.Errorf("parse json: expected an array or an object")
	}

	fillIDs(forest)
	return forest, nil
}
