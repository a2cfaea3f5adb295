package runtime_test

import (
	"context"
	"sync/atomic"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// navGraph has five complete walks:
//
//	Q1 -> Q2 -> End_Early
//	Q1 -> Q2 -> Q3 -> End_Court | End_Early
//	Q1 -> Q3 -> End_Court | End_Early
func navGraph() *domain.Graph {
	return &domain.Graph{
		Questions: map[string]domain.Question{
			"Q1": {Text: "配偶者が子どもを連れて家を出ましたか？", Options: []domain.Option{
				{Label: "まだ", Next: "Q2"},
				{Label: "はい", Next: "Q3"},
			}},
			"Q2": {Text: "別居の兆候はありますか？", Options: []domain.Option{
				{Label: "ない", Next: "End_Early"},
				{Label: "ある", Next: "Q3"},
			}},
			"Q3": {Text: "調停を申し立てられましたか？", Options: []domain.Option{
				{Label: "はい", Next: "End_Court"},
				{Label: "いいえ", Next: "End_Early"},
			}},
		},
		Results: map[string]domain.Result{
			"End_Early": {
				Phase:      "予防期",
				PhaseLevel: "phase-green",
				Advice:     "証拠を残しましょう。",
				Videos:     []domain.VideoLink{{Title: "最初にやること", URL: "https://youtu.be/a"}},
				Tools:      []domain.Tool{domain.ToolCommunity, domain.ToolJudgments},
			},
			"End_Court": {
				Phase:      "調停期",
				PhaseLevel: "phase-red",
				Advice:     "弁護士に相談しましょう。",
				Tools:      []domain.Tool{domain.ToolJudgments},
			},
		},
		MarshmallowURL: "https://marshmallow-qa.com/example",
	}
}

// countingLoader serves a fixed graph (or error) and counts calls.
type countingLoader struct {
	graph *domain.Graph
	err   error
	calls atomic.Int32
	// block, when set, makes Load wait for it or for ctx cancellation.
	block chan struct{}
}

func (l *countingLoader) Load(ctx context.Context) (*domain.Graph, error) {
	l.calls.Add(1)
	if l.block != nil {
		select {
		case <-l.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.graph, nil
}
