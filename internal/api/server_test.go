package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"SignalDesk/internal/collector"
	"SignalDesk/internal/config"
	"SignalDesk/internal/model"
	"SignalDesk/internal/service"
	"SignalDesk/internal/strategy"
)

type fakeAnalyzer struct {
	cfg      *config.Config
	err      error
	lastCall [2]string
	// wait blocks Analyze until its context ends.
	wait bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, symbol, decision string) (*model.Analysis, error) {
	f.lastCall = [2]string{symbol, decision}
	if f.wait {
		<-ctx.Done()
		return nil, fmt.Errorf("fetch %s: %w", symbol, ctx.Err())
	}
	if f.err != nil {
		return nil, f.err
	}
	ind := model.IndicatorSnapshot{CCI: 0, RSI: 50, OBVScore: 50}
	return &model.Analysis{
		Symbol:            symbol,
		DecisionRequested: decision,
		Source:            "yahoo",
		Rows:              120,
		LastDate:          "2024-04-09",
		Indicators:        ind,
		Signal:            strategy.Generate(ind, model.DecisionBuy, strategy.DefaultScoring()),
	}, nil
}

func (f *fakeAnalyzer) Score(in service.IndicatorInput, decision string) (model.SignalResult, error) {
	d, err := service.ParseDecision(decision)
	if err != nil {
		return model.SignalResult{}, err
	}
	return strategy.Generate(in.Snapshot(), d, strategy.DefaultScoring()), nil
}

func (f *fakeAnalyzer) Config() *config.Config { return f.cfg }

type requestCounter struct{ routes map[string]int }

func (c *requestCounter) ObserveRequest(route string, code int, _ time.Duration) {
	c.routes[fmt.Sprintf("%s %d", route, code)]++
}

func newTestServer(t *testing.T, fa *fakeAnalyzer) (*httptest.Server, *requestCounter) {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	fa.cfg = cfg
	obs := &requestCounter{routes: map[string]int{}}
	srv := httptest.NewServer(NewServer(":0", fa, Options{Observer: obs}).Routes())
	t.Cleanup(srv.Close)
	return srv, obs
}

func TestAnalyze_Post(t *testing.T) {
	fa := &fakeAnalyzer{}
	srv, obs := newTestServer(t, fa)

	resp, err := http.Post(srv.URL+"/analyze", "application/json", strings.NewReader(`{"symbol":"AAPL","decision":"buy"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"symbol", "decision_requested", "recommendation", "conviction_score", "strength_pct",
		"strength", "level", "color", "reason", "thresholds", "weights", "indicators", "debug"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing response field %q", key)
		}
	}
	if body["recommendation"] != "BUY" || body["conviction_score"].(float64) != 50 {
		t.Errorf("unexpected signal fields: %v / %v", body["recommendation"], body["conviction_score"])
	}
	if body["reason"] != "CCI neutral / OBV flat / RSI neutral (30~70)" {
		t.Errorf("unexpected reason %q", body["reason"])
	}
	debug := body["debug"].(map[string]interface{})
	if debug["data_source"] != "yahoo" || debug["last_date"] != "2024-04-09" {
		t.Errorf("unexpected debug block %v", debug)
	}
	if obs.routes["/analyze 200"] != 1 {
		t.Errorf("expected request observed, got %v", obs.routes)
	}
}

func TestAnalyze_Get(t *testing.T) {
	fa := &fakeAnalyzer{}
	srv, _ := newTestServer(t, fa)

	resp, err := http.Get(srv.URL + "/analyze?symbol=005930&decision=sell")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if fa.lastCall != [2]string{"005930", "sell"} {
		t.Errorf("unexpected call %v", fa.lastCall)
	}
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"missing symbol", `{"decision":"buy"}`, nil, http.StatusBadRequest},
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"invalid symbol", `{"symbol":"A;B"}`, fmt.Errorf("x: %w", collector.ErrInvalidSymbol), http.StatusBadRequest},
		{"invalid decision", `{"symbol":"AAPL","decision":"hold"}`, service.ErrInvalidDecision, http.StatusBadRequest},
		{"no data", `{"symbol":"ZZZZ"}`, collector.ErrNoData, http.StatusNotFound},
		{"rate limited", `{"symbol":"AAPL"}`, fmt.Errorf("all failed: %w", collector.ErrRateLimited), http.StatusTooManyRequests},
		{"upstream", `{"symbol":"AAPL"}`, fmt.Errorf("connection refused"), http.StatusBadGateway},
		{"deadline", `{"symbol":"AAPL"}`, fmt.Errorf("yahoo: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t, &fakeAnalyzer{err: tc.err})
			resp, err := http.Post(srv.URL+"/analyze", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("expected %d, got %d", tc.want, resp.StatusCode)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("expected JSON error body, got %v (%v)", body, err)
			}
		})
	}
}

func TestScore(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAnalyzer{})

	resp, err := http.Post(srv.URL+"/score", "application/json",
		strings.NewReader(`{"decision":"buy","indicators":{"CCI":-150,"RSI":20,"OBV_SCORE":90}}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Recommendation string `json:"recommendation"`
		ConvictionScore int   `json:"conviction_score"`
		Level          string `json:"level"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Recommendation != "BUY" || body.ConvictionScore != 97 || body.Level != "VERY_STRONG" {
		t.Errorf("unexpected score response %+v", body)
	}
}

func TestPreflightAndConfig(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAnalyzer{})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/analyze", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Methods") == "" {
		t.Errorf("unexpected preflight response %d %v", resp.StatusCode, resp.Header)
	}

	resp, err = http.Get(srv.URL + "/config")
	if err != nil {
		t.Fatalf("GET /config: %v", err)
	}
	defer resp.Body.Close()
	var cfg struct {
		Scoring struct {
			BuyThreshold  float64 `json:"buy_threshold"`
			SellThreshold float64 `json:"sell_threshold"`
		} `json:"scoring"`
		Profile string `json:"profile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Scoring.BuyThreshold != 50 || cfg.Scoring.SellThreshold != 90 || cfg.Profile != "standard" {
		t.Errorf("unexpected config %+v", cfg)
	}

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected healthy, got %d", resp.StatusCode)
	}
}

func TestAnalyze_DeadlineUnderWriteTimeout(t *testing.T) {
	fa := &fakeAnalyzer{wait: true}
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	fa.cfg = cfg
	srv := httptest.NewServer(NewServer(":0", fa, Options{WriteTimeout: time.Second}).Routes())
	t.Cleanup(srv.Close)

	start := time.Now()
	resp, err := http.Get(srv.URL + "/analyze?symbol=AAPL")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", resp.StatusCode)
	}
	if elapsed := time.Since(start); elapsed >= time.Second {
		t.Errorf("analysis outlived the write timeout: %v", elapsed)
	}
}

func TestAnalyzeBudget(t *testing.T) {
	if got := analyzeBudget(30 * time.Second); got != 27*time.Second {
		t.Errorf("analyzeBudget(30s) = %v, want 27s", got)
	}
	if got := analyzeBudget(0); got != 0 {
		t.Errorf("analyzeBudget(0) = %v, want no deadline", got)
	}
}

func TestObserve_UnmatchedPathsShareOneRoute(t *testing.T) {
	srv, obs := newTestServer(t, &fakeAnalyzer{})

	for i := 0; i < 50; i++ {
		resp, err := http.Get(fmt.Sprintf("%s/scan/%d", srv.URL, i))
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	}
	if len(obs.routes) != 1 {
		t.Errorf("expected one route label for unknown paths, got %d: %v", len(obs.routes), obs.routes)
	}
	if obs.routes["unmatched 404"] != 50 {
		t.Errorf("expected 50 requests under the unmatched label, got %v", obs.routes)
	}
}
