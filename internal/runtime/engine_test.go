package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/meiyaku-knights/navi/internal/runtime"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LoadsGraphOnce(t *testing.T) {
	loader := &countingLoader{graph: navGraph()}
	eng := runtime.NewEngine(loader)
	ctx := context.Background()

	assert.False(t, eng.Loaded())

	s, step, err := eng.Start(ctx, domain.NewSession("a"))
	require.NoError(t, err)
	assert.Equal(t, "Q1", step.Question.ID)
	assert.True(t, eng.Loaded())

	s, _, err = eng.Answer(ctx, s, "Q1", 1)
	require.NoError(t, err)

	// Start again with a loaded graph skips the fetch and resets the path.
	s, _, err = eng.Start(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, s.Path)
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestEngine_LoadFailureIsNotCached(t *testing.T) {
	loader := &countingLoader{err: errors.New("network error")}
	eng := runtime.NewEngine(loader)
	ctx := context.Background()

	s, _, err := eng.Start(ctx, domain.NewSession("a"))
	require.ErrorIs(t, err, domain.ErrGraphUnavailable)
	require.NotNil(t, s)
	assert.Equal(t, domain.PhaseNotStarted, s.Phase)
	assert.True(t, s.LoadFailed)
	assert.Contains(t, s.LoadError, "network error")
	assert.False(t, eng.Loaded())

	// Retry is a fresh start.
	loader.err = nil
	loader.graph = navGraph()
	s, _, err = eng.Start(ctx, s)
	require.NoError(t, err)
	assert.False(t, s.LoadFailed)
	assert.Equal(t, domain.PhaseAtQuestion, s.Phase)
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestEngine_CanceledLoad(t *testing.T) {
	loader := &countingLoader{graph: navGraph(), block: make(chan struct{})}
	eng := runtime.NewEngine(loader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := eng.Start(ctx, domain.NewSession("a"))
	assert.ErrorIs(t, err, domain.ErrGraphUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, eng.Loaded())
}

func TestEngine_ConcurrentFirstLoadsCoalesce(t *testing.T) {
	loader := &countingLoader{graph: navGraph(), block: make(chan struct{})}
	eng := runtime.NewEngine(loader)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.Graph(ctx)
		}(i)
	}
	// Let everyone pile onto the in-flight load before releasing it.
	for loader.calls.Load() == 0 {
	}
	close(loader.block)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.LessOrEqual(t, loader.calls.Load(), int32(5))
	assert.True(t, eng.Loaded())
}

func TestEngine_Hooks(t *testing.T) {
	var loads, steps, results, restarts int
	hooks := domain.LifecycleHooks{
		OnGraphLoad: func(ctx context.Context, e *domain.LoadEvent) {
			loads++
			assert.NoError(t, e.Err)
			assert.Equal(t, "hooked", e.SessionID)
		},
		OnStep:    func(ctx context.Context, e *domain.StepEvent) { steps++ },
		OnResult:  func(ctx context.Context, e *domain.StepEvent) { results++; assert.Equal(t, "End_Early", e.NodeID) },
		OnRestart: func(ctx context.Context, e *domain.StepEvent) { restarts++; assert.Equal(t, 0, e.Depth) },
	}
	eng := runtime.NewEngine(&countingLoader{graph: navGraph()}, runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	s, _, err := eng.Start(ctx, domain.NewSession("hooked"))
	require.NoError(t, err)
	s, _, err = eng.Answer(ctx, s, "Q1", 0)
	require.NoError(t, err)
	s, _, err = eng.Answer(ctx, s, "Q2", 0)
	require.NoError(t, err)
	_, _, err = eng.Restart(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, 1, loads)
	assert.Equal(t, 4, steps)
	assert.Equal(t, 1, results)
	assert.Equal(t, 1, restarts)
}

func TestEngine_CustomStartAndPrefix(t *testing.T) {
	g := &domain.Graph{
		Questions: map[string]domain.Question{
			"intro": {Text: "go?", Options: []domain.Option{{Label: "yes", Next: "R:done"}}},
		},
		Results: map[string]domain.Result{"R:done": {Phase: "done"}},
	}
	eng := runtime.NewEngine(&countingLoader{graph: g},
		runtime.WithStartNode("intro"),
		runtime.WithResultPrefix("R:"),
	)
	ctx := context.Background()

	s, _, err := eng.Start(ctx, domain.NewSession("x"))
	require.NoError(t, err)
	s, step, err := eng.Answer(ctx, s, "intro", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StepResult, step.Kind)

	timeline, err := eng.Timeline(ctx, s)
	require.NoError(t, err)
	assert.Len(t, timeline, 2)
}
