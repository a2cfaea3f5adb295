package catalog

import (
	"fmt"
	"time"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

const (
	// LatestCount is how many judgments the landing page previews.
	LatestCount = 4
	// PreviewTags is how many tags each preview card shows.
	PreviewTags = 3
)

// Latest returns the last n judgments of the dataset, newest (last) first.
func Latest(items []domain.Judgment, n int) []domain.Judgment {
	if n <= 0 {
		return []domain.Judgment{}
	}
	if n > len(items) {
		n = len(items)
	}
	out := make([]domain.Judgment, 0, n)
	for i := len(items) - 1; i >= len(items)-n; i-- {
		out = append(out, items[i])
	}
	return out
}

// Previews trims every judgment to k tags.
func Previews(items []domain.Judgment, k int) []domain.Judgment {
	out := make([]domain.Judgment, len(items))
	for i, j := range items {
		out[i] = j.Preview(k)
	}
	return out
}

const dateLayout = "2006-01-02"

// Query selects judgments by tags and an inclusive date range.
// Zero fields do not filter.
type Query struct {
	Tags []string
	From string // YYYY-MM-DD
	To   string // YYYY-MM-DD
}

// Validate checks the date bounds.
func (q Query) Validate() error {
	for _, d := range []string{q.From, q.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", d)
		}
	}
	if q.From != "" && q.To != "" && q.From > q.To {
		return fmt.Errorf("date range is reversed: %s > %s", q.From, q.To)
	}
	return nil
}

// Match reports whether j carries every selected tag and falls inside the range.
func (q Query) Match(j domain.Judgment) bool {
	if q.From != "" && j.Date < q.From {
		return false
	}
	if q.To != "" && j.Date > q.To {
		return false
	}
	for _, want := range q.Tags {
		found := false
		for _, have := range j.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Apply returns the matching judgments in dataset order.
func (q Query) Apply(items []domain.Judgment) []domain.Judgment {
	out := []domain.Judgment{}
	for _, j := range items {
		if q.Match(j) {
			out = append(out, j)
		}
	}
	return out
}
