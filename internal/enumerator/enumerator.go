// Package enumerator supplies snapshots of running OS processes and
// best-effort listening-port resolution. The system implementation is
// backed by gopsutil; the interfaces exist so the monitor core can be
// exercised with fakes.
package enumerator

import (
	"context"
	"time"
)

// Process is one entry of a process snapshot.
type Process struct {
	PID         int32
	Name        string
	StartTime   time.Time
	WindowTitle string
	ExePath     string
	Exited      bool
}

// Enumerator lists currently running processes. Implementations must be safe
// for concurrent use.
type Enumerator interface {
	Processes(ctx context.Context) ([]Process, error)
}

// PortResolver returns the listening TCP port of a process, if one can be
// determined. It is best-effort and must not fail on unknown PIDs.
type PortResolver interface {
	ListenPort(ctx context.Context, pid int32) (int, bool)
}

// EnumeratorFunc adapts a function to the Enumerator interface.
type EnumeratorFunc func(ctx context.Context) ([]Process, error)

func (f EnumeratorFunc) Processes(ctx context.Context) ([]Process, error) { return f(ctx) }

// PortResolverFunc adapts a function to the PortResolver interface.
type PortResolverFunc func(ctx context.Context, pid int32) (int, bool)

func (f PortResolverFunc) ListenPort(ctx context.Context, pid int32) (int, bool) {
	return f(ctx, pid)
}
