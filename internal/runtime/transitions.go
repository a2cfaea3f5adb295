package runtime

import (
	"errors"
	"fmt"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// Awaiting returns a copy of s marked as waiting for the graph.
func Awaiting(s *domain.Session) *domain.Session {
	next := s.Snapshot()
	next.Phase = domain.PhaseAwaitingGraph
	next.LoadFailed = false
	next.LoadError = ""
	return next
}

// LoadFailed returns s reset to NotStarted with the retry indicator raised.
func LoadFailed(s *domain.Session, cause error) *domain.Session {
	next := s.Snapshot()
	next.Phase = domain.PhaseNotStarted
	next.CurrentID = ""
	next.Path = []domain.Decision{}
	next.LoadFailed = true
	if cause != nil {
		next.LoadError = cause.Error()
	}
	return next
}

// Begin places a fresh copy of s at the start question with an empty path.
func Begin(g *domain.Graph, s *domain.Session, startID string) (*domain.Session, domain.Step, error) {
	q, err := g.Question(startID)
	if err != nil {
		return nil, domain.Step{}, fmt.Errorf("start question: %w", err)
	}

	next := s.Snapshot()
	next.Phase = domain.PhaseAtQuestion
	next.CurrentID = startID
	next.Path = []domain.Decision{}
	next.LoadFailed = false
	next.LoadError = ""

	return next, questionStep(q, 1, -1), nil
}

// Answer records the choice of optionIndex on questionID and moves to the option's target.
// The input session is never mutated.
func Answer(g *domain.Graph, s *domain.Session, prefix, questionID string, optionIndex int) (*domain.Session, domain.Step, error) {
	switch s.Phase {
	case domain.PhaseAtQuestion:
	case domain.PhaseAtResult:
		return nil, domain.Step{}, fmt.Errorf("%w: session is at result %q", domain.ErrQuestionMismatch, s.CurrentID)
	default:
		return nil, domain.Step{}, domain.ErrNotStarted
	}

	if s.CurrentID != questionID {
		return nil, domain.Step{}, fmt.Errorf("%w: current %q, answered %q", domain.ErrQuestionMismatch, s.CurrentID, questionID)
	}

	q, err := g.Question(questionID)
	if err != nil {
		return nil, domain.Step{}, err
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return nil, domain.Step{}, fmt.Errorf("%w: %d (question %q has %d options)", domain.ErrInvalidOption, optionIndex, questionID, len(q.Options))
	}
	target := q.Options[optionIndex].Next

	next := s.Snapshot()
	next.Path = append(next.Path, domain.Decision{
		QuestionID:  questionID,
		OptionIndex: optionIndex,
		NextID:      target,
	})
	index := len(next.Path) + 1

	if domain.IsTerminal(target, prefix) {
		r, err := g.Result(target)
		if err != nil {
			return nil, domain.Step{}, referencedBy(err, questionID)
		}
		next.Phase = domain.PhaseAtResult
		next.CurrentID = target
		return next, resultStep(g, r, index), nil
	}

	nq, err := g.Question(target)
	if err != nil {
		return nil, domain.Step{}, referencedBy(err, questionID)
	}
	next.Phase = domain.PhaseAtQuestion
	next.CurrentID = target
	return next, questionStep(nq, index, -1), nil
}

// Restart clears the decision path and returns to the start question.
func Restart(g *domain.Graph, s *domain.Session, startID string) (*domain.Session, domain.Step, error) {
	if s.Phase != domain.PhaseAtQuestion && s.Phase != domain.PhaseAtResult {
		return nil, domain.Step{}, domain.ErrNotStarted
	}
	return Begin(g, s, startID)
}

// Timeline rebuilds the visible history of s: every answered question with its
// selected option, followed by the current question or result.
func Timeline(g *domain.Graph, s *domain.Session) ([]domain.Step, error) {
	if s.Phase != domain.PhaseAtQuestion && s.Phase != domain.PhaseAtResult {
		return nil, nil
	}

	steps := make([]domain.Step, 0, len(s.Path)+1)
	for i, d := range s.Path {
		q, err := g.Question(d.QuestionID)
		if err != nil {
			return nil, err
		}
		steps = append(steps, questionStep(q, i+1, d.OptionIndex))
	}

	index := len(s.Path) + 1
	if s.Phase == domain.PhaseAtResult {
		r, err := g.Result(s.CurrentID)
		if err != nil {
			return nil, err
		}
		return append(steps, resultStep(g, r, index)), nil
	}

	q, err := g.Question(s.CurrentID)
	if err != nil {
		return nil, err
	}
	return append(steps, questionStep(q, index, -1)), nil
}

func questionStep(q domain.Question, index, selected int) domain.Step {
	return domain.Step{
		Index:    index,
		Kind:     domain.StepQuestion,
		Question: &q,
		Selected: selected,
	}
}

func resultStep(g *domain.Graph, r domain.Result, index int) domain.Step {
	return domain.Step{
		Index:    index,
		Kind:     domain.StepResult,
		Selected: -1,
		Result:   domain.NewResultView(r, g.MarshmallowURL),
	}
}

func referencedBy(err error, from string) error {
	var nodeErr *domain.NodeError
	if errors.As(err, &nodeErr) {
		nodeErr.From = from
	}
	return err
}
