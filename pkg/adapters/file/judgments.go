package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// Judgments reads the judgment dataset (a JSON array) from Path.
type Judgments struct {
	Path string
}

// Judgments returns every record in file order.
func (j Judgments) Judgments(ctx context.Context) ([]domain.Judgment, error) {
	return ReadJudgments(j.Path)
}

// ReadJudgments decodes the judgment dataset at path.
func ReadJudgments(path string) ([]domain.Judgment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read judgments: %w", err)
	}
	var items []domain.Judgment
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode judgments %s: %w", path, err)
	}
	return items, nil
}
