package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// StepPrinter writes navigator steps to a terminal.
type StepPrinter struct {
	W      io.Writer
	Render Renderer
	// Profile controls colors. termenv.Ascii disables them.
	Profile termenv.Profile
}

// NewStepPrinter creates a printer for w using the detected color profile.
func NewStepPrinter(w io.Writer, render Renderer) *StepPrinter {
	if render == nil {
		render = PlainRenderer
	}
	return &StepPrinter{W: w, Render: render, Profile: termenv.ColorProfile()}
}

// Print writes one step. Answered questions show only the chosen option.
func (p *StepPrinter) Print(step domain.Step) error {
	switch step.Kind {
	case domain.StepQuestion:
		return p.printQuestion(step)
	case domain.StepResult:
		return p.printResult(step)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (p *StepPrinter) printQuestion(step domain.Step) error {
	q := step.Question
	title := p.Profile.String(fmt.Sprintf("Q%d. %s", step.Index, q.Text)).Bold()
	fmt.Fprintln(p.W, title)

	if step.Answered() {
		chosen := p.Profile.String("  → " + q.Options[step.Selected].Label).Foreground(p.Profile.Color("#60a5fa"))
		fmt.Fprintln(p.W, chosen)
		return nil
	}
	for i, opt := range q.Options {
		fmt.Fprintf(p.W, "  [%d] %s\n", i+1, opt.Label)
	}
	return nil
}

func (p *StepPrinter) printResult(step domain.Step) error {
	r := step.Result
	fmt.Fprintln(p.W)
	phase := p.Profile.String("【" + r.Phase + "】").Bold().Foreground(p.Profile.Color(levelColor(r.PhaseLevel)))
	fmt.Fprintln(p.W, phase)

	out, err := p.Render(r.Advice)
	if err != nil {
		return fmt.Errorf("failed to render advice: %w", err)
	}
	fmt.Fprintln(p.W, strings.TrimRight(out, "\n"))

	if len(r.Videos) > 0 {
		fmt.Fprintln(p.W, "\n▶ おすすめ動画")
		for _, v := range r.Videos {
			fmt.Fprintf(p.W, "  - %s %s\n", v.Title, v.URL)
		}
	}
	for _, link := range r.ToolLinks {
		fmt.Fprintf(p.W, "%s %s\n", link.Label, link.Href)
	}
	if r.ContactURL != "" {
		fmt.Fprintf(p.W, "\n💌 匿名で質問する: %s\n", r.ContactURL)
	}
	fmt.Fprintln(p.W, p.Profile.String(r.FooterNote).Faint())
	return nil
}

// PrintLoadFailure tells the user the graph could not be loaded and how to retry.
func (p *StepPrinter) PrintLoadFailure(s *domain.Session) {
	msg := "ナビの読み込みに失敗しました。もう一度お試しください。"
	fmt.Fprintln(p.W, p.Profile.String(msg).Foreground(p.Profile.Color("#ef4444")))
	if s != nil && s.LoadError != "" {
		fmt.Fprintln(p.W, p.Profile.String("  "+s.LoadError).Faint())
	}
}

func levelColor(level string) string {
	switch {
	case strings.Contains(level, "red"):
		return "#ef4444"
	case strings.Contains(level, "orange"):
		return "#f97316"
	case strings.Contains(level, "yellow"):
		return "#eab308"
	case strings.Contains(level, "green"):
		return "#22c55e"
	default:
		return "#94a3b8"
	}
}
