package navi

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/meiyaku-knights/navi/internal/logging"
	"github.com/meiyaku-knights/navi/internal/runtime"
	"github.com/meiyaku-knights/navi/pkg/adapters/file"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/ports"
)

// Navigator is the high-level entry point for the survival navigator.
// It wraps the internal runtime and provides a simplified API for consumers.
type Navigator struct {
	runtime     *runtime.Engine
	loader      ports.GraphLoader
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Navigator.
type Option func(*Navigator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Navigator) {
		n.hooks = hooks
	}
}

// WithLoader injects a custom GraphLoader, bypassing the default file loader.
func WithLoader(l ports.GraphLoader) Option {
	return func(n *Navigator) {
		n.loader = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithStartNode configures the first question (default: "Q1").
func WithStartNode(id string) Option {
	return func(n *Navigator) {
		n.runtimeOpts = append(n.runtimeOpts, runtime.WithStartNode(id))
	}
}

// WithResultPrefix configures the reserved result prefix (default: "End_").
func WithResultPrefix(prefix string) Option {
	return func(n *Navigator) {
		n.runtimeOpts = append(n.runtimeOpts, runtime.WithResultPrefix(prefix))
	}
}

// New initializes a Navigator.
// By default the graph is read from the JSON or YAML document at graphPath on first use.
// If WithLoader is provided, graphPath is only used as a descriptive name.
func New(graphPath string, opts ...Option) (*Navigator, error) {
	n := &Navigator{}
	for _, opt := range opts {
		opt(n)
	}

	if n.loader == nil {
		if graphPath == "" {
			return nil, fmt.Errorf("graphPath is required when no custom loader is provided")
		}
		absPath, err := filepath.Abs(graphPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		n.loader = file.NewGraphLoader(absPath)
	}
	if graphPath != "" {
		n.Name = filepath.Base(graphPath)
	}

	if n.logger == nil {
		n.logger = logging.NewNop()
	}
	if n.Name != "" {
		n.logger = n.logger.With("graph", n.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(n.hooks),
		runtime.WithLogger(n.logger),
	}
	runtimeOpts = append(runtimeOpts, n.runtimeOpts...)
	n.runtime = runtime.NewEngine(n.loader, runtimeOpts...)

	return n, nil
}

// Start moves the session to the start question, loading the graph if needed.
// If loading fails, the returned session carries the retry indicator and the error
// wraps domain.ErrGraphUnavailable.
func (n *Navigator) Start(ctx context.Context, s *domain.Session) (*domain.Session, domain.Step, error) {
	return n.runtime.Start(ctx, s)
}

// Answer applies a decision. The session passed in is left untouched.
func (n *Navigator) Answer(ctx context.Context, s *domain.Session, questionID string, optionIndex int) (*domain.Session, domain.Step, error) {
	return n.runtime.Answer(ctx, s, questionID, optionIndex)
}

// Restart clears the decision path and returns to the start question.
func (n *Navigator) Restart(ctx context.Context, s *domain.Session) (*domain.Session, domain.Step, error) {
	return n.runtime.Restart(ctx, s)
}

// Timeline renders every step of the session in decision order.
func (n *Navigator) Timeline(ctx context.Context, s *domain.Session) ([]domain.Step, error) {
	return n.runtime.Timeline(ctx, s)
}

// Graph returns the loaded graph for inspection tools (validate, mermaid export).
func (n *Navigator) Graph(ctx context.Context) (*domain.Graph, error) {
	return n.runtime.Graph(ctx)
}

// Loaded reports whether the graph is already cached.
func (n *Navigator) Loaded() bool {
	return n.runtime.Loaded()
}

// StartID returns the configured start question.
func (n *Navigator) StartID() string {
	return n.runtime.StartID()
}

// ResultPrefix returns the configured result prefix.
func (n *Navigator) ResultPrefix() string {
	return n.runtime.ResultPrefix()
}

// Loader returns the underlying GraphLoader.
func (n *Navigator) Loader() ports.GraphLoader {
	return n.loader
}
