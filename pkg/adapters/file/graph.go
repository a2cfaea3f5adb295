package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// GraphLoader implements ports.GraphLoader over a JSON or YAML document.
type GraphLoader struct {
	Path string
}

// NewGraphLoader creates a loader for the graph document at path.
func NewGraphLoader(path string) *GraphLoader {
	return &GraphLoader{Path: path}
}

// Load reads and decodes the whole document. A partial graph is never returned.
func (l *GraphLoader) Load(ctx context.Context) (*domain.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph %s: %w", l.Path, err)
	}
	g, err := DecodeGraph(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	return g, nil
}

// DecodeGraph parses a JSON or YAML graph document.
func DecodeGraph(data []byte) (*domain.Graph, error) {
	var raw map[string]any
	unmarshal := yaml.Unmarshal
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse graph: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty graph document")
	}

	var g domain.Graph
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &g,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	if len(g.Questions) == 0 {
		return nil, fmt.Errorf("graph has no questions")
	}
	return &g, nil
}
