package metrics

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"SignalDesk/internal/model"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("/analyze", 200, 10*time.Millisecond)
	m.ObserveRequest("/analyze", 200, 20*time.Millisecond)
	m.ObserveSignal(model.SignalResult{Decision: model.DecisionBuy, Recommendation: model.RecommendBuy})
	m.ObserveFetch("yahoo", "ok", time.Second)
	m.CacheHit()

	if v := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/analyze", "200")); v != 2 {
		t.Errorf("expected 2 requests, got %v", v)
	}
	if v := testutil.ToFloat64(m.SignalsTotal.WithLabelValues("BUY", "BUY")); v != 1 {
		t.Errorf("expected 1 signal, got %v", v)
	}
	if v := testutil.ToFloat64(m.CacheHits); v != 1 {
		t.Errorf("expected 1 cache hit, got %v", v)
	}

	// Separate instances must not collide on registration.
	_ = NewMetrics()
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveFetch("naver", "not_found", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `signaldesk_provider_fetch_total{provider="naver",result="not_found"} 1`) {
		t.Errorf("expected provider counter in exposition, got:\n%s", rec.Body.String())
	}
}

func TestHealthStatus(t *testing.T) {
	h := NewHealthStatus()
	h.Set("redis", true)
	h.Set("kafka", false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "degraded" || body.Components["kafka"] != "down" || body.Components["redis"] != "up" {
		t.Errorf("unexpected health body %+v", body)
	}
}
