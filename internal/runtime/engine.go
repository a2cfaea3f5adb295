package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meiyaku-knights/navi/internal/logging"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/ports"
	"golang.org/x/sync/singleflight"
)

// Engine is the navigator core. It owns the graph singleton and applies the
// pure transitions to sessions handed in by the caller.
type Engine struct {
	loader       ports.GraphLoader
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	startID      string
	resultPrefix string

	mu    sync.RWMutex
	graph *domain.Graph
	loads singleflight.Group
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStartNode configures the first question (default: "Q1").
func WithStartNode(id string) EngineOption {
	return func(e *Engine) {
		if id != "" {
			e.startID = id
		}
	}
}

// WithResultPrefix configures the terminal identifier prefix (default: "End_").
func WithResultPrefix(prefix string) EngineOption {
	return func(e *Engine) {
		if prefix != "" {
			e.resultPrefix = prefix
		}
	}
}

// NewEngine creates a new engine reading its graph from loader.
func NewEngine(loader ports.GraphLoader, opts ...EngineOption) *Engine {
	e := &Engine{
		loader:       loader,
		logger:       logging.NewNop(),
		startID:      domain.DefaultStartID,
		resultPrefix: domain.DefaultResultPrefix,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartID returns the configured start question.
func (e *Engine) StartID() string { return e.startID }

// ResultPrefix returns the configured terminal prefix.
func (e *Engine) ResultPrefix() string { return e.resultPrefix }

// Loaded reports whether the graph is cached in memory.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph != nil
}

// Graph returns the cached graph, loading it on first use.
// Concurrent first loads are coalesced. A failed or canceled load caches nothing.
func (e *Engine) Graph(ctx context.Context) (*domain.Graph, error) {
	return e.graphFor(ctx, "")
}

func (e *Engine) graphFor(ctx context.Context, sessionID string) (*domain.Graph, error) {
	e.mu.RLock()
	g := e.graph
	e.mu.RUnlock()
	if g != nil {
		return g, nil
	}

	ch := e.loads.DoChan("graph", func() (any, error) {
		start := time.Now()
		g, err := e.loader.Load(ctx)
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		e.emitLoad(ctx, sessionID, time.Since(start), err)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if e.graph == nil {
			e.graph = g
		}
		return e.graph, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrGraphUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			// Joined a flight whose owner was canceled: ours is still live, so load again.
			if isCanceled(res.Err) && ctx.Err() == nil {
				return e.graphFor(ctx, sessionID)
			}
			e.logger.Warn("graph load failed", "err", res.Err)
			return nil, fmt.Errorf("%w: %w", domain.ErrGraphUnavailable, res.Err)
		}
		return res.Val.(*domain.Graph), nil
	}
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Start moves a session to the start question, loading the graph first if needed.
// On load failure the returned session is back at NotStarted with LoadFailed set,
// alongside an error wrapping domain.ErrGraphUnavailable.
func (e *Engine) Start(ctx context.Context, s *domain.Session) (*domain.Session, domain.Step, error) {
	g, err := e.graphFor(ctx, s.ID)
	if err != nil {
		return LoadFailed(s, err), domain.Step{}, err
	}

	next, step, err := Begin(g, s, e.startID)
	if err != nil {
		return nil, domain.Step{}, err
	}
	e.logger.Debug("session started", "session_id", s.ID, "node", e.startID)
	e.emitStep(ctx, next, step)
	return next, step, nil
}

// Answer applies one decision to the session.
func (e *Engine) Answer(ctx context.Context, s *domain.Session, questionID string, optionIndex int) (*domain.Session, domain.Step, error) {
	g, err := e.graphFor(ctx, s.ID)
	if err != nil {
		return nil, domain.Step{}, err
	}

	next, step, err := Answer(g, s, e.resultPrefix, questionID, optionIndex)
	if err != nil {
		e.logger.Debug("answer rejected", "session_id", s.ID, "question", questionID, "option", optionIndex, "err", err)
		return nil, domain.Step{}, err
	}
	e.logger.Debug("answer recorded", "session_id", s.ID, "question", questionID, "option", optionIndex, "next", next.CurrentID)
	e.emitStep(ctx, next, step)
	return next, step, nil
}

// Restart clears the decision path and re-renders the start question.
func (e *Engine) Restart(ctx context.Context, s *domain.Session) (*domain.Session, domain.Step, error) {
	g, err := e.graphFor(ctx, s.ID)
	if err != nil {
		return nil, domain.Step{}, err
	}

	next, step, err := Restart(g, s, e.startID)
	if err != nil {
		return nil, domain.Step{}, err
	}
	if e.hooks.OnRestart != nil {
		e.hooks.OnRestart(ctx, e.stepEvent(domain.EventRestart, next, step))
	}
	e.emitStep(ctx, next, step)
	return next, step, nil
}

// Timeline returns the rendered history of a session.
func (e *Engine) Timeline(ctx context.Context, s *domain.Session) ([]domain.Step, error) {
	if s.Phase != domain.PhaseAtQuestion && s.Phase != domain.PhaseAtResult {
		return nil, nil
	}
	g, err := e.graphFor(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return Timeline(g, s)
}

func (e *Engine) emitLoad(ctx context.Context, sessionID string, d time.Duration, err error) {
	if e.hooks.OnGraphLoad == nil {
		return
	}
	e.hooks.OnGraphLoad(ctx, &domain.LoadEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventGraphLoad,
			SessionID: sessionID,
		},
		Duration: d,
		Err:      err,
	})
}

func (e *Engine) emitStep(ctx context.Context, s *domain.Session, step domain.Step) {
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, e.stepEvent(domain.EventStep, s, step))
	}
	if step.Kind == domain.StepResult && e.hooks.OnResult != nil {
		e.hooks.OnResult(ctx, e.stepEvent(domain.EventResult, s, step))
	}
}

func (e *Engine) stepEvent(t domain.EventType, s *domain.Session, step domain.Step) *domain.StepEvent {
	return &domain.StepEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      t,
			SessionID: s.ID,
		},
		NodeID: s.CurrentID,
		Kind:   step.Kind,
		Depth:  len(s.Path),
	}
}
