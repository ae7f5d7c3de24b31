// Package health provides the /health, /ready and /live probe handlers.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Pinger defines the interface for checking a dependency's connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config holds the configuration for the health checker.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Logger      *logrus.Logger
	Checks      map[string]Pinger
}

// Checker serves the probe endpoints.
type Checker struct {
	serviceName string
	version     string
	commit      string
	logger      *logrus.Logger
	checks      map[string]Pinger
	mu          sync.RWMutex
	ready       bool
}

// NewChecker creates a new health checker. It starts not ready.
func NewChecker(cfg Config) *Checker {
	checks := make(map[string]Pinger, len(cfg.Checks))
	for name, p := range cfg.Checks {
		if p != nil {
			checks[name] = p
		}
	}
	return &Checker{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		logger:      cfg.Logger,
		checks:      checks,
	}
}

// SetReady marks the service as ready to accept traffic.
func (c *Checker) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

// IsReady returns whether the service is ready.
func (c *Checker) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Register mounts the probe endpoints on r.
func (c *Checker) Register(r chi.Router) {
	r.Get("/health", c.handleHealth)
	r.Get("/ready", c.handleReady)
	r.Get("/live", c.handleLive)
}

// handleHealth handles the /health endpoint - basic liveness check.
func (c *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   c.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   c.version,
		Commit:    c.commit,
	})
}

// handleLive handles the /live endpoint - kubernetes liveness probe.
func (c *Checker) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: c.serviceName,
	})
}

// handleReady handles the /ready endpoint - checks every registered dependency.
func (c *Checker) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	allHealthy := true

	if !c.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		err := c.checks[name].Ping(ctx)
		cancel()
		if err != nil {
			allHealthy = false
			checks[name] = fmt.Sprintf("error: %v", err)
			if c.logger != nil {
				c.logger.WithError(err).WithField("check", name).Warn("Readiness check failed")
			}
		} else {
			checks[name] = "ok"
		}
	}

	response := ReadyResponse{
		Service:  c.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	if allHealthy {
		response.Status = "ok"
		writeJSON(w, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	writeJSON(w, http.StatusServiceUnavailable, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
