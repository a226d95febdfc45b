package history

import (
	"context"
	"time"
)

// Event is one service status transition to be exported to external systems.
// The in-memory service set remains authoritative; sinks are observers only.
type Event struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	// Prev is the status before the transition; empty when the service
	// was just created.
	Prev       string    `json:"prev_status,omitempty"`
	PID        int32     `json:"pid"`
	Port       int       `json:"port,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sink is a destination for transition events (analytics/statistics systems).
// Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
}
