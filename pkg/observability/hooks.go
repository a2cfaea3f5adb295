package observability

import (
	"context"
	"log/slog"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// LogHooks logs every lifecycle event at debug level (load failures at warn).
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGraphLoad: func(ctx context.Context, e *domain.LoadEvent) {
			if e.Err != nil {
				logger.Warn("graph load failed", "session_id", e.SessionID, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.Debug("graph loaded", "session_id", e.SessionID, "duration", e.Duration)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("step", "session_id", e.SessionID, "node_id", e.NodeID, "kind", e.Kind, "depth", e.Depth)
		},
		OnResult: func(ctx context.Context, e *domain.StepEvent) {
			logger.Info("result reached", "session_id", e.SessionID, "result_id", e.NodeID, "depth", e.Depth)
		},
		OnRestart: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("restart", "session_id", e.SessionID)
		},
	}
}

// Combine fans every event out to all hook sets, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnGraphLoad = chainLoad(out.OnGraphLoad, h.OnGraphLoad)
		out.OnStep = chainStep(out.OnStep, h.OnStep)
		out.OnResult = chainStep(out.OnResult, h.OnResult)
		out.OnRestart = chainStep(out.OnRestart, h.OnRestart)
	}
	return out
}

func chainLoad(a, b func(context.Context, *domain.LoadEvent)) func(context.Context, *domain.LoadEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.LoadEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainStep(a, b func(context.Context, *domain.StepEvent)) func(context.Context, *domain.StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
