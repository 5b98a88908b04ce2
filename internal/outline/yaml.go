package outline

import (
	"fmt"
	"io"

	"github.com/dgallion1/shopadmin/internal/categorytree"
	"gopkg.in/yaml.v3"
)

// YAMLParser decodes a forest written as nested mappings, either a bare
// list or a document with a top-level "categories" key. Nodes without an
// id get a generated one.
//
//	categories:
//	  - title: Apparel
//	    children:
//	      - {id: tees, title: Tees}
type YAMLParser struct{}

func (p *YAMLParser) Parse(r io.Reader, filename string) ([]*categorytree.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	var forest []*categorytree.Node
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&forest); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case yaml.MappingNode:
		var wrapped struct {
			Categories []*categorytree.Node `yaml:"categories"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		forest = wrapped.Categories
	default:
		return nil, fmt.Errorf("parse yaml: expected a list or a categories mapping")
	}

	fillIDs(forest)
	return forest, nil
}
