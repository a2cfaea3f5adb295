package navi

import (
	"context"
	"sync"

	"github.com/meiyaku-knights/navi/internal/runtime"
	"github.com/meiyaku-knights/navi/pkg/domain"
)

// Controller drives a single interactive session, as in the terminal.
//
// Every Start or Restart supersedes whatever load was still in flight: the older
// call is canceled and returns domain.ErrStaleLoad without touching the session.
type Controller struct {
	nav *Navigator

	mu      sync.Mutex
	session *domain.Session
	cancel  context.CancelFunc
	gen     uint64
}

// NewController creates a controller owning a fresh session.
func (n *Navigator) NewController(sessionID string) *Controller {
	return &Controller{
		nav:     n,
		session: domain.NewSession(sessionID),
	}
}

// Session returns a snapshot of the current session.
func (c *Controller) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Snapshot()
}

// Start begins the session, fetching the graph on first use.
func (c *Controller) Start(ctx context.Context) (domain.Step, error) {
	c.mu.Lock()
	gen := c.supersede()
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	if !c.nav.Loaded() {
		c.session = runtime.Awaiting(c.session)
	}
	current := c.session.Snapshot()
	c.mu.Unlock()
	defer cancel()

	next, step, err := c.nav.Start(loadCtx, current)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return domain.Step{}, domain.ErrStaleLoad
	}
	c.cancel = nil
	switch {
	case next != nil:
		c.session = next
	case err != nil:
		c.session = runtime.LoadFailed(current, err)
	}
	return step, err
}

// Answer records a decision on the current question.
func (c *Controller) Answer(ctx context.Context, questionID string, optionIndex int) (domain.Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, step, err := c.nav.Answer(ctx, c.session, questionID, optionIndex)
	if err != nil {
		return domain.Step{}, err
	}
	c.session = next
	return step, nil
}

// Restart clears the path and shows the start question again.
// A restart before the first question is shown, including one issued while the
// graph is still loading, drops the pending load and starts over.
func (c *Controller) Restart(ctx context.Context) (domain.Step, error) {
	c.mu.Lock()
	if !c.session.Started() {
		c.supersede()
		c.session = domain.NewSession(c.session.ID)
		c.mu.Unlock()
		return c.Start(ctx)
	}
	defer c.mu.Unlock()
	c.supersede()

	next, step, err := c.nav.Restart(ctx, c.session)
	if err != nil {
		return domain.Step{}, err
	}
	c.session = next
	return step, nil
}

// Timeline renders the steps shown so far.
func (c *Controller) Timeline(ctx context.Context) ([]domain.Step, error) {
	c.mu.Lock()
	s := c.session.Snapshot()
	c.mu.Unlock()
	return c.nav.Timeline(ctx, s)
}

// supersede cancels the in-flight load and returns the new generation. Callers hold mu.
func (c *Controller) supersede() uint64 {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	return c.gen
}
