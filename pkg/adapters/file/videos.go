package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/meiyaku-knights/navi/internal/fsutil"
	"github.com/meiyaku-knights/navi/pkg/domain"
)

// Videos implements ports.VideoSource over the normalized dataset file.
type Videos struct {
	Path string
}

// Videos reads the dataset. A missing file is an error so callers can fall through.
func (v Videos) Videos(ctx context.Context) ([]domain.Video, error) {
	data, err := os.ReadFile(v.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read videos: %w", err)
	}
	var items []domain.Video
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode videos %s: %w", v.Path, err)
	}
	return items, nil
}

// WriteVideos stores videos as an indented JSON array.
func WriteVideos(path string, videos []domain.Video) error {
	if videos == nil {
		videos = []domain.Video{}
	}
	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal videos: %w", err)
	}
	return fsutil.WriteAtomic(path, append(data, '\n'), 0o644)
}
