package catalog

import (
	"sort"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// MinTagCount is the frequency a tag needs before it gets a filter checkbox.
const MinTagCount = 20

// TagCount is one row of the frequency report.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Frequency is the result of CountTags.
type Frequency struct {
	Counts map[string]int `json:"counts"`
	// Sorted is ordered by descending count, ties in first-encounter order.
	Sorted []TagCount `json:"sorted"`
}

// CountTags counts every tag occurrence across items.
// A tag repeated inside one record is counted each time it appears.
func CountTags(items []domain.Judgment) Frequency {
	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		for _, tag := range item.Tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	sorted := make([]TagCount, len(order))
	for i, tag := range order {
		sorted[i] = TagCount{Tag: tag, Count: counts[tag]}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	return Frequency{Counts: counts, Sorted: sorted}
}

// AtLeast returns the tags with count >= min, keeping the sorted order.
func (f Frequency) AtLeast(min int) []TagCount {
	var out []TagCount
	for _, tc := range f.Sorted {
		if tc.Count >= min {
			out = append(out, tc)
		}
	}
	return out
}
