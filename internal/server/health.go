package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	probeOK           = "ok"
	probeNotReady     = "not ready"
	probeShuttingDown = "shutting down"
)

// HealthChecker serves the liveness and readiness probes of the HTTP
// transport. Readiness depends on the calendar backend being wired and the
// server context not being shut down.
type HealthChecker struct {
	version string
	started time.Time
	sc      *ServerContext
	ready   atomic.Bool
}

// NewHealthChecker returns a checker that starts out ready. sc may be nil.
func NewHealthChecker(sc *ServerContext, version string) *HealthChecker {
	h := &HealthChecker{version: version, started: time.Now(), sc: sc}
	h.ready.Store(true)
	return h
}

// SetReady flips readiness, e.g. while draining.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the flag set by SetReady.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Uptime   string `json:"uptime"`
	ReadOnly bool   `json:"read_only"`
}

// checks evaluates each readiness condition. The second result is false if
// any of them failed.
func (h *HealthChecker) checks() (map[string]string, bool) {
	result := map[string]string{
		"ready":    probeOK,
		"calendar": probeOK,
		"shutdown": probeOK,
	}
	ok := true

	if !h.ready.Load() {
		result["ready"] = probeNotReady
		ok = false
	}
	if h.sc != nil && h.sc.Executor() == nil {
		result["calendar"] = probeNotReady
		ok = false
	}
	if h.shuttingDown() {
		result["shutdown"] = probeShuttingDown
		ok = false
	}
	return result, ok
}

func (h *HealthChecker) shuttingDown() bool {
	return h.sc != nil && h.sc.IsShutdown()
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// LivenessHandler answers ok as long as the process can serve HTTP.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: probeOK})
	})
}

// ReadinessHandler answers 503 with the failing checks when the server
// should not receive tool calls.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks, ok := h.checks()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: probeNotReady, Checks: checks})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: probeOK, Checks: checks})
	})
}

// DetailedHealthHandler adds version, uptime and the read-only flag.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := DetailedHealthResponse{
			Status:  probeOK,
			Version: h.version,
			Uptime:  time.Since(h.started).Truncate(time.Second).String(),
		}
		if h.sc != nil {
			resp.ReadOnly = h.sc.ReadOnly()
		}

		code := http.StatusOK
		switch {
		case !h.ready.Load():
			resp.Status, code = probeNotReady, http.StatusServiceUnavailable
		case h.shuttingDown():
			resp.Status, code = probeShuttingDown, http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})
}

// RegisterHealthEndpoints mounts /healthz, /readyz and /healthz/detailed.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
