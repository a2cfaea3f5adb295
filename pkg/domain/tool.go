package domain

// Tool identifies a site tool recommended by a result. The set is closed.
type Tool string

const (
	ToolJudgments Tool = "judgments"
	ToolCommunity Tool = "community"
)

// ToolLink is the rendered form of a tool recommendation.
type ToolLink struct {
	Tool  Tool   `json:"tool"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

var toolLinks = map[Tool]ToolLink{
	ToolJudgments: {Tool: ToolJudgments, Label: "📚 判例DBを見る", Href: "judgments.html"},
	ToolCommunity: {Tool: ToolCommunity, Label: "👥 コミュニティへ", Href: "community.html"},
}

// Valid reports whether t belongs to the closed tool set.
func (t Tool) Valid() bool {
	_, ok := toolLinks[t]
	return ok
}

// Links resolves tools to links in canonical order (judgments before community),
// ignoring unknown entries.
func Links(tools []Tool) []ToolLink {
	var out []ToolLink
	for _, t := range []Tool{ToolJudgments, ToolCommunity} {
		for _, have := range tools {
			if have == t {
				out = append(out, toolLinks[t])
				break
			}
		}
	}
	return out
}
