// Package health reports the state of the node components behind the API.
//
// Required components (state store, block production) decide readiness. An
// optional component such as the event indexer only degrades the report.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult is the outcome of one component check
type CheckResult struct {
	Status   HealthStatus `json:"status"`
	Message  string       `json:"message,omitempty"`
	Latency  string       `json:"latency,omitempty"`
	Optional bool         `json:"optional,omitempty"`
}

// CheckFunc probes one component
type CheckFunc func(ctx context.Context) CheckResult

type component struct {
	name     string
	check    CheckFunc
	optional bool
}

// HealthChecker runs the registered component checks and caches the report
type HealthChecker struct {
	version      string
	checkTimeout time.Duration
	cacheTimeout time.Duration
	now          func() time.Time

	mu         sync.RWMutex
	components map[string]component
	cached     *HealthResponse
	cachedAt   time.Time
}

// NewHealthChecker creates a checker reporting version
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		version:      version,
		checkTimeout: 5 * time.Second,
		cacheTimeout: 2 * time.Second,
		now:          time.Now,
		components:   make(map[string]component),
	}
}

// RegisterCheck adds a required component. Its failure makes the node unhealthy.
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.register(component{name: name, check: check})
}

// RegisterOptionalCheck adds a component whose failure only degrades the node.
func (hc *HealthChecker) RegisterOptionalCheck(name string, check CheckFunc) {
	hc.register(component{name: name, check: check, optional: true})
}

func (hc *HealthChecker) register(c component) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.components[c.name] = c
	hc.cached = nil
}

// PerformChecks probes every component concurrently, each under its own
// timeout. A report younger than the cache interval is reused.
func (hc *HealthChecker) PerformChecks(ctx context.Context) *HealthResponse {
	hc.mu.RLock()
	if hc.cached != nil && hc.now().Sub(hc.cachedAt) < hc.cacheTimeout {
		cached := hc.cached
		hc.mu.RUnlock()
		return cached
	}
	components := make([]component, 0, len(hc.components))
	for _, c := range hc.components {
		components = append(components, c)
	}
	hc.mu.RUnlock()

	results := make([]CheckResult, len(components))
	var g errgroup.Group
	for i, c := range components {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, hc.checkTimeout)
			defer cancel()
			result := c.check(checkCtx)
			if c.optional {
				result.Optional = true
				if result.Status == StatusUnhealthy {
					result.Status = StatusDegraded
				}
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	response := &HealthResponse{
		Status:    StatusHealthy,
		Timestamp: hc.now(),
		Version:   hc.version,
		Checks:    make(map[string]CheckResult, len(components)),
	}
	for i, c := range components {
		response.Checks[c.name] = results[i]
		response.Status = worst(response.Status, results[i].Status)
	}

	hc.mu.Lock()
	hc.cached = response
	hc.cachedAt = response.Timestamp
	hc.mu.Unlock()
	return response
}

func worst(a, b HealthStatus) HealthStatus {
	if a == StatusUnhealthy || b == StatusUnhealthy {
		return StatusUnhealthy
	}
	if a == StatusDegraded || b == StatusDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// HealthHandler serves the full report. Degraded still answers 200.
func (hc *HealthChecker) HealthHandler(w http.ResponseWriter, r *http.Request) {
	response := hc.PerformChecks(r.Context())
	code := http.StatusOK
	if response.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

// LivenessHandler answers as long as the process serves HTTP
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": hc.now(),
	})
}

// ReadinessHandler answers 503 while a required component is failing
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	response := hc.PerformChecks(r.Context())
	body := map[string]interface{}{
		"status":    "ready",
		"timestamp": response.Timestamp,
	}
	code := http.StatusOK
	if response.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
		body["status"] = "not_ready"
		failing := []string{}
		for name, result := range response.Checks {
			if result.Status == StatusUnhealthy {
				failing = append(failing, name)
			}
		}
		body["failing"] = failing
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StoreCheck reports whether the service state can be read
func StoreCheck(readFunc func(context.Context) error) CheckFunc {
	return pingCheck("State store", readFunc)
}

// DatabaseCheck reports whether an external database answers
func DatabaseCheck(pingFunc func(context.Context) error) CheckFunc {
	return pingCheck("Database connection", pingFunc)
}

func pingCheck(what string, fn func(context.Context) error) CheckFunc {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := fn(ctx)
		result := CheckResult{Status: StatusHealthy, Message: what + " OK", Latency: time.Since(start).String()}
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = what + " failed: " + err.Error()
		}
		return result
	}
}

// BlockCheck reports the last committed height. Height 0 means genesis was
// never loaded.
func BlockCheck(heightFunc func() int64) CheckFunc {
	return func(context.Context) CheckResult {
		height := heightFunc()
		if height == 0 {
			return CheckResult{Status: StatusUnhealthy, Message: "No blocks committed"}
		}
		return CheckResult{
			Status:  StatusHealthy,
			Message: "Committed through height " + strconv.FormatInt(height, 10),
		}
	}
}
