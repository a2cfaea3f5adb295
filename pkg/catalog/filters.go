package catalog

// UncategorizedGroup holds frequent tags no category claimed.
const UncategorizedGroup = "✨ その他・新着タグ"

// FilterGroup is one checkbox group of the judgment browser.
type FilterGroup struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// BuildFilters groups the tags with count >= min by taxonomy category.
//
// Categories are visited in taxonomy order and each keeps, in its own order, the
// frequent tags not claimed by an earlier category. Empty groups are skipped.
// Whatever is left goes to a final UncategorizedGroup in count order.
// Every frequent tag ends up in exactly one group.
func BuildFilters(freq Frequency, tax Taxonomy, min int) []FilterGroup {
	frequent := freq.AtLeast(min)
	unclaimed := make(map[string]bool, len(frequent))
	for _, tc := range frequent {
		unclaimed[tc.Tag] = true
	}

	var groups []FilterGroup
	for _, cat := range tax {
		var tags []string
		for _, tag := range cat.Tags {
			if unclaimed[tag] {
				tags = append(tags, tag)
				delete(unclaimed, tag)
			}
		}
		if len(tags) > 0 {
			groups = append(groups, FilterGroup{Name: cat.Name, Tags: tags})
		}
	}

	if len(unclaimed) > 0 {
		rest := FilterGroup{Name: UncategorizedGroup}
		for _, tc := range frequent {
			if unclaimed[tc.Tag] {
				rest.Tags = append(rest.Tags, tc.Tag)
			}
		}
		groups = append(groups, rest)
	}
	return groups
}
