package domain

// StepKind tells renderers which half of a Step is populated.
type StepKind string

const (
	StepQuestion StepKind = "question"
	StepResult   StepKind = "result"
)

// Step is one rendered unit of the navigator timeline.
type Step struct {
	// Index is 1-based, in decision order.
	Index int      `json:"index"`
	Kind  StepKind `json:"kind"`

	Question *Question `json:"question,omitempty"`
	// Selected is the chosen option for an answered question, -1 while pending.
	Selected int `json:"selected"`

	Result *ResultView `json:"result,omitempty"`
}

// Answered reports whether a question step already has a decision.
func (s Step) Answered() bool {
	return s.Kind == StepQuestion && s.Selected >= 0
}

// ResultView is a result enriched with everything needed to render it.
type ResultView struct {
	Result
	ToolLinks  []ToolLink `json:"tool_links"`
	ContactURL string     `json:"contact_url"`
	FooterNote string     `json:"footer_note"`
}

// FooterNote is appended to every result.
const FooterNote = "⚠️ 情報は常にアップデートされます。必ずYouTubeチャンネルで最新情報をチェックしてください"

// NewResultView builds the rendering model for r.
func NewResultView(r Result, contactURL string) *ResultView {
	return &ResultView{
		Result:     r,
		ToolLinks:  Links(r.Tools),
		ContactURL: contactURL,
		FooterNote: FooterNote,
	}
}
