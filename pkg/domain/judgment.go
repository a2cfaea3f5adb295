package domain

// Judgment is one court decision in the judgment browser dataset.
type Judgment struct {
	Date    string   `json:"date"` // YYYY-MM-DD
	Court   string   `json:"court"`
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Summary string   `json:"summary,omitempty"`
	URL     string   `json:"url,omitempty"`
}

// Preview returns a copy carrying at most n tags.
func (j Judgment) Preview(n int) Judgment {
	if len(j.Tags) > n {
		tags := make([]string, n)
		copy(tags, j.Tags[:n])
		j.Tags = tags
	}
	return j
}
