// Package monitor owns the tracked service set. A single poller goroutine
// reloads lookups, takes a process snapshot, reconciles, and publishes an
// immutable copy of the service set via an atomic pointer swap. Readers only
// ever see a snapshot that a completed cycle produced; enumeration runs
// before the cycle lock is taken, so a slow process table never blocks
// readers or a concurrent manual cycle for its duration.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/loykin/upmon/internal/enumerator"
	"github.com/loykin/upmon/internal/history"
	"github.com/loykin/upmon/internal/metrics"
	"github.com/loykin/upmon/internal/service"
)

const defaultInterval = 30 * time.Second

// Source supplies the lookup set; it is consulted once per cycle so config
// edits take effect without a restart.
type Source interface {
	Load() ([]service.Lookup, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() ([]service.Lookup, error)

func (f SourceFunc) Load() ([]service.Lookup, error) { return f() }

// StaticSource serves a fixed lookup set, mainly for embedding and tests.
type StaticSource []service.Lookup

func (s StaticSource) Load() ([]service.Lookup, error) { return s, nil }

// Options configures a Monitor. Source and Enumerator are required; the rest
// have working defaults.
type Options struct {
	Source     Source
	Enumerator enumerator.Enumerator
	Ports      enumerator.PortResolver
	Interval   time.Duration
	Logger     *slog.Logger
	Sinks      []history.Sink
}

type Monitor struct {
	src      Source
	enum     enumerator.Enumerator
	ports    enumerator.PortResolver
	interval time.Duration
	logger   *slog.Logger
	sinks    []history.Sink

	// mu serializes the reconcile-and-publish section of a cycle. It is
	// held while the port resolver runs (resolution happens inside
	// reconcile, only for created or revived services); enumeration runs
	// before the lock.
	mu       sync.Mutex
	services map[string]*service.Service

	snap atomic.Pointer[[]service.Service]
}

func New(opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Monitor{
		src:      opts.Source,
		enum:     opts.Enumerator,
		ports:    opts.Ports,
		interval: opts.Interval,
		logger:   opts.Logger,
		sinks:    append([]history.Sink(nil), opts.Sinks...),
		services: make(map[string]*service.Service),
	}
}

// Run executes the poll loop until ctx is cancelled. The first cycle runs
// immediately. Cancellation takes effect between cycles; an in-flight cycle
// always completes and publishes atomically.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started", "interval", m.interval)
	t := time.NewTicker(m.interval)
	defer t.Stop()
	m.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopped")
			return nil
		case <-t.C:
			m.runCycle(ctx)
		}
	}
}

// ReconcileOnce runs a single poll cycle on the caller's goroutine. It shares
// the cycle lock with the poll loop, so manual and scheduled cycles never
// interleave.
func (m *Monitor) ReconcileOnce(ctx context.Context) {
	m.runCycle(ctx)
}

func (m *Monitor) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("poll cycle panic", "panic", r)
			metrics.IncPollCycle("error")
		}
	}()
	started := time.Now()

	lookups, err := m.src.Load()
	if err != nil {
		// degraded cycle: zero lookups, retried next cycle
		m.logger.Warn("lookup reload failed", "error", err)
		lookups = nil
	}

	procs, err := m.enum.Processes(ctx)
	if err != nil {
		m.logger.Error("process enumeration failed, keeping previous snapshot", "error", err)
		metrics.IncPollCycle("error")
		return
	}

	resolvePort := func(pid int32) (int, bool) {
		if m.ports == nil {
			return 0, false
		}
		return m.ports.ListenPort(ctx, pid)
	}

	m.mu.Lock()
	changed, events := reconcile(procs, lookups, m.services, resolvePort, time.Now())
	snapshot := m.snapshotLocked()
	// publish while still holding mu so a concurrent cycle cannot
	// overwrite a newer snapshot with this one
	m.snap.Store(&snapshot)
	m.mu.Unlock()

	m.observe(ctx, snapshot, started)
	metrics.IncPollCycle("success")

	for _, e := range events {
		m.logger.Info("service transition", "service", e.Service, "status", e.Status, "pid", e.PID)
		if e.Prev != "" {
			metrics.RecordStateTransition(e.Service, e.Prev, e.Status)
		}
	}
	m.emit(ctx, events)

	if changed {
		m.logger.Debug("reconcile produced changes", "transitions", len(events), "services", len(snapshot))
	}
}

// snapshotLocked deep-copies the service set sorted by name. Caller holds mu.
func (m *Monitor) snapshotLocked() []service.Service {
	out := make([]service.Service, 0, len(m.services))
	for _, svc := range m.services {
		out = append(out, svc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return service.Key(out[i].Name) < service.Key(out[j].Name) })
	return out
}

func (m *Monitor) observe(ctx context.Context, snapshot []service.Service, started time.Time) {
	metrics.ObserveReconcileDuration(time.Since(started).Seconds())
	metrics.SetServicesTracked(len(snapshot))
	now := time.Now()
	for i := range snapshot {
		svc := &snapshot[i]
		for _, st := range []string{service.StatusStarted, service.StatusOnline, service.StatusOffline} {
			metrics.SetServiceState(svc.Name, st, svc.Status == st)
		}
		metrics.SetAvailability(svc.Name, service.Availability(svc.UpTime, svc.DownTime, now))
		if svc.Status == service.StatusOffline {
			metrics.DropProcess(svc.Name)
		} else {
			metrics.CollectProcess(ctx, svc.Name, svc.Process.PID)
		}
	}
}

func (m *Monitor) emit(ctx context.Context, events []history.Event) {
	if len(events) == 0 || len(m.sinks) == 0 {
		return
	}
	for _, e := range events {
		for _, s := range m.sinks {
			if err := s.Send(ctx, e); err != nil {
				m.logger.Warn("history sink send failed", "service", e.Service, "error", err)
			}
		}
	}
}

// Services returns the latest published snapshot, sorted by name.
func (m *Monitor) Services() []service.Service {
	p := m.snap.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Service returns one service from the latest snapshot by case-insensitive name.
func (m *Monitor) Service(name string) (service.Service, bool) {
	key := service.Key(name)
	for _, svc := range m.Services() {
		if service.Key(svc.Name) == key {
			return svc, true
		}
	}
	return service.Service{}, false
}

// Availability computes the availability percentage for a tracked service.
func (m *Monitor) Availability(name string) (float64, error) {
	svc, ok := m.Service(name)
	if !ok {
		return 0, fmt.Errorf("unknown service %q", name)
	}
	return service.Availability(svc.UpTime, svc.DownTime, time.Now()), nil
}
