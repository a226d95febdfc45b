package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loykin/upmon/internal/metrics"
	"github.com/loykin/upmon/internal/monitor"
)

// Router provides embeddable HTTP handlers over the monitor's snapshot.
// Endpoints:
//   GET  {basePath}/services          current snapshot, sorted by name
//   GET  {basePath}/services/:name    single service by case-insensitive name
//   GET  {basePath}/availability      query: name=... -> {"availability": pct}
//   POST {basePath}/reconcile         trigger a manual poll cycle
//   GET  /healthz                     liveness
//   GET  /metrics                     Prometheus metrics
// basePath may be empty or start with '/'; no trailing slash.

type Router struct {
	mon      *monitor.Monitor
	basePath string
}

// NewRouter constructs a new Router with configurable basePath.
// Example basePath: "/api" results in /api/services, /api/availability.
func NewRouter(mon *monitor.Monitor, basePath string) *Router {
	bp := sanitizeBase(basePath)
	return &Router{mon: mon, basePath: bp}
}

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/healthz", func(c *gin.Context) { writeJSON(c, http.StatusOK, okResp{OK: true}) })
	g.GET("/metrics", gin.WrapH(metrics.Handler()))
	group := g.Group(r.basePath)
	group.GET("/services", r.handleServices)
	group.GET("/services/:name", r.handleService)
	group.GET("/availability", r.handleAvailability)
	group.POST("/reconcile", r.handleReconcile)
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
func NewServer(addr, basePath string, mon *monitor.Monitor) (*http.Server, error) {
	r := NewRouter(mon, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}

// --- Handlers ---

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK bool `json:"ok"`
}

type availabilityResp struct {
	Name         string  `json:"name"`
	Availability float64 `json:"availability"`
}

func (r *Router) handleServices(c *gin.Context) {
	svcs := r.mon.Services()
	if svcs == nil {
		// no completed cycle yet
		writeJSON(c, http.StatusOK, []any{})
		return
	}
	writeJSON(c, http.StatusOK, svcs)
}

func (r *Router) handleService(c *gin.Context) {
	name := c.Param("name")
	svc, ok := r.mon.Service(name)
	if !ok {
		writeJSON(c, http.StatusNotFound, errorResp{Error: "unknown service: " + name})
		return
	}
	writeJSON(c, http.StatusOK, svc)
}

func (r *Router) handleAvailability(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "name query param required"})
		return
	}
	pct, err := r.mon.Availability(name)
	if err != nil {
		writeJSON(c, http.StatusNotFound, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, availabilityResp{Name: name, Availability: pct})
}

func (r *Router) handleReconcile(c *gin.Context) {
	r.mon.ReconcileOnce(c.Request.Context())
	writeJSON(c, http.StatusOK, okResp{OK: true})
}
