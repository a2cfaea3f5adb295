package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// Loader implements ports.GraphLoader over a graph held in memory.
type Loader struct {
	graph *domain.Graph
}

// NewLoader serves g on every Load.
func NewLoader(g *domain.Graph) *Loader {
	return &Loader{graph: g}
}

// NewLoaderFromJSON decodes a graph document up front.
// This improves DX for tests and for graphs embedded in a binary.
func NewLoaderFromJSON(raw []byte) (*Loader, error) {
	var g domain.Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	return &Loader{graph: &g}, nil
}

// Load returns the graph.
func (l *Loader) Load(ctx context.Context) (*domain.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.graph == nil {
		return nil, fmt.Errorf("memory loader: no graph configured")
	}
	return l.graph, nil
}

// Videos implements ports.VideoSource over a fixed list.
type Videos []domain.Video

// Videos returns a copy of the list.
func (v Videos) Videos(ctx context.Context) ([]domain.Video, error) {
	out := make([]domain.Video, len(v))
	copy(out, v)
	return out, nil
}
