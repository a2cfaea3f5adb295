package navi_test

import (
	"context"
	"fmt"
	"log"

	"github.com/meiyaku-knights/navi"
	"github.com/meiyaku-knights/navi/pkg/adapters/memory"
	"github.com/meiyaku-knights/navi/pkg/domain"
)

// ExampleNew_memory runs the navigator against a graph held in memory.
func ExampleNew_memory() {
	loader := memory.NewLoader(&domain.Graph{
		Questions: map[string]domain.Question{
			"Q1": {Text: "子どもと会えていますか？", Options: []domain.Option{
				{Label: "会えている", Next: "End_OK"},
				{Label: "会えていない", Next: "End_Act"},
			}},
		},
		Results: map[string]domain.Result{
			"End_OK":  {Phase: "安定期", Advice: "記録を続けましょう。"},
			"End_Act": {Phase: "行動期", Advice: "面会交流調停を検討しましょう。", Tools: []domain.Tool{domain.ToolJudgments}},
		},
	})

	nav, err := navi.New("", navi.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	ctl := nav.NewController("example")
	step, err := ctl.Start(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Q%d: %s\n", step.Index, step.Question.Text)

	step, err = ctl.Answer(ctx, step.Question.ID, 1)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(step.Result.Phase)
	for _, link := range step.Result.ToolLinks {
		fmt.Println(link.Href)
	}
	// Output:
	// Q1: 子どもと会えていますか？
	// 行動期
	// judgments.html
}
