package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

// Category is one named group of the taxonomy.
type Category struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Taxonomy is the ordered category list used to group filter tags.
// In YAML it is a mapping of category name to tag list; mapping order is kept.
type Taxonomy []Category

// UnmarshalYAML decodes the mapping node by hand so that key order survives.
func (t *Taxonomy) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: taxonomy must be a mapping of category to tags", node.Line)
	}

	out := make(Taxonomy, 0, len(node.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		var name string
		if err := key.Decode(&name); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("line %d: duplicate category %q", key.Line, name)
		}
		seen[name] = true

		var tags []string
		if err := val.Decode(&tags); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
		out = append(out, Category{Name: name, Tags: tags})
	}
	*t = out
	return nil
}

// ParseTaxonomy decodes a YAML taxonomy document.
func ParseTaxonomy(data []byte) (Taxonomy, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}
	if len(doc.Content) == 0 {
		return Taxonomy{}, nil
	}
	var t Taxonomy
	if err := doc.Content[0].Decode(&t); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTaxonomy reads the taxonomy at path, or returns the built-in one when path is empty.
func LoadTaxonomy(path string) (Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}
	return ParseTaxonomy(data)
}

// DefaultTaxonomy returns the categories used by the judgment browser.
func DefaultTaxonomy() Taxonomy {
	t, err := ParseTaxonomy(defaultTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
	}
	return t
}
