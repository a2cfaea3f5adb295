package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGraphLoad EventType = "graph_load"
	EventStep      EventType = "step"
	EventResult    EventType = "result"
	EventRestart   EventType = "restart"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// LoadEvent reports the outcome of a graph load.
type LoadEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// StepEvent represents a rendered step (question or result).
type StepEvent struct {
	EventBase
	NodeID string   `json:"node_id"`
	Kind   StepKind `json:"kind"`
	Depth  int      `json:"depth"` // decisions taken so far
}

// LifecycleHooks defines callbacks for navigator observability.
type LifecycleHooks struct {
	OnGraphLoad func(context.Context, *LoadEvent)
	OnStep      func(context.Context, *StepEvent)
	OnResult    func(context.Context, *StepEvent)
	OnRestart   func(context.Context, *StepEvent)
}
