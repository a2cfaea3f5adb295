package ports

import (
	"context"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// VideoSource reads a pre-generated video dataset.
type VideoSource interface {
	Videos(ctx context.Context) ([]domain.Video, error)
}

// RemoteFeed fetches the most recent uploads of a channel from the provider.
type RemoteFeed interface {
	Latest(ctx context.Context, handle string, max int64) ([]domain.Video, error)
}
