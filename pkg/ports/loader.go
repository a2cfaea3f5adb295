package ports

import (
	"context"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// GraphLoader defines how the engine retrieves the navigator graph.
// Implementations must return either a complete graph or an error, never a partial graph.
type GraphLoader interface {
	Load(ctx context.Context) (*domain.Graph, error)
}
