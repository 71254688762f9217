package metrics

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// HealthStatus tracks the state of optional dependencies. None of them is
// required to score a signal, so a failing component degrades rather than
// fails the service.
type HealthStatus struct {
	mu         sync.RWMutex
	components map[string]bool
	startedAt  time.Time
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{components: map[string]bool{}, startedAt: time.Now()}
}

// Set records whether a named component is usable.
func (h *HealthStatus) Set(component string, ok bool) {
	h.mu.Lock()
	h.components[component] = ok
	h.mu.Unlock()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	names := make([]string, 0, len(h.components))
	for name, ok := range h.components {
		names = append(names, name)
		if !ok {
			status = "degraded"
		}
	}
	sort.Strings(names)
	comps := make(map[string]string, len(names))
	for _, name := range names {
		comps[name] = "down"
		if h.components[name] {
			comps[name] = "up"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Status     string            `json:"status"`
		Uptime     string            `json:"uptime"`
		Components map[string]string `json:"components"`
	}{
		Status:     status,
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Components: comps,
	})
}
