package upmon

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	cfg "github.com/loykin/upmon/internal/config"
	"github.com/loykin/upmon/internal/enumerator"
	"github.com/loykin/upmon/internal/history"
	"github.com/loykin/upmon/internal/metrics"
	"github.com/loykin/upmon/internal/monitor"
	iapi "github.com/loykin/upmon/internal/server"
	"github.com/loykin/upmon/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Service = service.Service

type Lookup = service.Lookup

type ProcessAttrs = service.ProcessAttrs

type Config = cfg.FileConfig

type HistorySink = history.Sink

// Service status values.
const (
	StatusStarted = service.StatusStarted
	StatusOnline  = service.StatusOnline
	StatusOffline = service.StatusOffline
)

// Monitor is a thin facade over internal/monitor.Monitor.
// It provides a stable public API for embedding.

type Monitor struct{ inner *monitor.Monitor }

// Options configures an embedded monitor. Zero values fall back to the
// system enumerator, system port resolver and a 30s interval.
type Options struct {
	Lookups    []Lookup
	LookupFile string
	Interval   time.Duration
	Logger     *slog.Logger
	Sinks      []HistorySink
}

// New creates a monitor over the real OS process table.
func New(opts Options) *Monitor {
	var src monitor.Source = monitor.StaticSource(opts.Lookups)
	if opts.LookupFile != "" {
		src = cfg.FileSource{Path: opts.LookupFile}
	}
	return &Monitor{inner: monitor.New(monitor.Options{
		Source:     src,
		Enumerator: enumerator.NewSystem(),
		Ports:      enumerator.NewSystemPorts(),
		Interval:   opts.Interval,
		Logger:     opts.Logger,
		Sinks:      opts.Sinks,
	})}
}

// NewFromConfig builds a monitor for a loaded config file. Lookups are
// re-read from path every cycle; the rest of the config is fixed at startup.
func NewFromConfig(path string, c *Config, logger *slog.Logger, sinks []HistorySink) *Monitor {
	return &Monitor{inner: monitor.New(monitor.Options{
		Source:     cfg.FileSource{Path: path},
		Enumerator: enumerator.NewSystem(),
		Ports:      enumerator.NewSystemPorts(),
		Interval:   c.Interval,
		Logger:     logger,
		Sinks:      sinks,
	})}
}

func (m *Monitor) Run(ctx context.Context) error       { return m.inner.Run(ctx) }
func (m *Monitor) ReconcileOnce(ctx context.Context)   { m.inner.ReconcileOnce(ctx) }
func (m *Monitor) Services() []Service                 { return m.inner.Services() }
func (m *Monitor) Service(name string) (Service, bool) { return m.inner.Service(name) }
func (m *Monitor) Availability(name string) (float64, error) {
	return m.inner.Availability(name)
}

// Availability computes the availability percentage for arbitrary up/down
// histories; exposed for consumers that keep their own records.
func Availability(upTime, downTime []time.Time, now time.Time) float64 {
	return service.Availability(upTime, downTime, now)
}

func LoadConfig(path string) (*Config, error) {
	return cfg.Load(path)
}

// NewHTTPServer starts an HTTP server exposing the internal API using the given monitor.
func NewHTTPServer(addr, basePath string, m *Monitor) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, m.inner)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the default registry.
// It returns any immediate listen error; otherwise it runs the server in the caller goroutine.
func ServeMetrics(addr string) error {
	http.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           nil,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
