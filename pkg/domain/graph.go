package domain

import "strings"

// Option is one selectable answer of a question.
// Next is either a question identifier or a result identifier (reserved prefix).
type Option struct {
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	Next  string `json:"next" yaml:"next" mapstructure:"next"`
}

// Question is a navigator node that halts for a choice.
type Question struct {
	ID      string   `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Text    string   `json:"text" yaml:"text" mapstructure:"text"`
	Options []Option `json:"options" yaml:"options" mapstructure:"options"`
}

// VideoLink is a recommended video attached to a result.
type VideoLink struct {
	Title string `json:"title" yaml:"title" mapstructure:"title"`
	URL   string `json:"url" yaml:"url" mapstructure:"url"`
}

// Result is a terminal navigator node.
type Result struct {
	ID         string      `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Phase      string      `json:"phase" yaml:"phase" mapstructure:"phase"`
	PhaseLevel string      `json:"phaseLevel" yaml:"phaseLevel" mapstructure:"phaseLevel"`
	Advice     string      `json:"advice" yaml:"advice" mapstructure:"advice"`
	Videos     []VideoLink `json:"videos" yaml:"videos" mapstructure:"videos"`
	Tools      []Tool      `json:"tools" yaml:"tools" mapstructure:"tools"`
}

// Graph is the static question/result DAG driving the navigator.
// It is loaded once and must be treated as read-only afterwards.
type Graph struct {
	Questions      map[string]Question `json:"questions" yaml:"questions" mapstructure:"questions"`
	Results        map[string]Result   `json:"results" yaml:"results" mapstructure:"results"`
	MarshmallowURL string              `json:"marshmallowUrl" yaml:"marshmallowUrl" mapstructure:"marshmallowUrl"`
}

// Question returns the question with the given id.
func (g *Graph) Question(id string) (Question, error) {
	q, ok := g.Questions[id]
	if !ok {
		return Question{}, &NodeError{Kind: KindQuestion, ID: id}
	}
	if q.ID == "" {
		q.ID = id
	}
	return q, nil
}

// Result returns the result with the given id.
func (g *Graph) Result(id string) (Result, error) {
	r, ok := g.Results[id]
	if !ok {
		return Result{}, &NodeError{Kind: KindResult, ID: id}
	}
	if r.ID == "" {
		r.ID = id
	}
	return r, nil
}

// IsTerminal reports whether id names a result under the given prefix.
func IsTerminal(id, prefix string) bool {
	return strings.HasPrefix(id, prefix)
}
