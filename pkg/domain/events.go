package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventRejected   EventType = "rejected"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	TableID   string    `json:"table_id,omitempty"`
}

// TransitionEvent describes an operation applied to a table, successful or not.
type TransitionEvent struct {
	EventBase
	Op      Operation `json:"op"`
	From    Progress  `json:"from"`
	To      Progress  `json:"to"`
	Players int       `json:"players"`
	Depth   int       `json:"depth"`
	// Diff is what the operation changed. Set on accepted operations only.
	Diff *SnapshotDiff `json:"diff,omitempty"`
	Err  error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnRejected   func(context.Context, *TransitionEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: chain(h.OnTransition, other.OnTransition),
		OnRejected:   chain(h.OnRejected, other.OnRejected),
	}
}

func chain(a, b func(context.Context, *TransitionEvent)) func(context.Context, *TransitionEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *TransitionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
