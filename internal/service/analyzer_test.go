package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"SignalDesk/internal/collector"
	"SignalDesk/internal/config"
	"SignalDesk/internal/model"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		in   string
		want model.Decision
		err  bool
	}{
		{"", model.DecisionBuy, false},
		{"buy", model.DecisionBuy, false},
		{" BUY ", model.DecisionBuy, false},
		{"long", model.DecisionBuy, false},
		{"매수", model.DecisionBuy, false},
		{"Sell", model.DecisionSell, false},
		{"s", model.DecisionSell, false},
		{"매도", model.DecisionSell, false},
		{"hold", "", true},
	}
	for _, tc := range tests {
		got, err := ParseDecision(tc.in)
		if tc.err {
			if !errors.Is(err, ErrInvalidDecision) {
				t.Errorf("ParseDecision(%q): expected ErrInvalidDecision, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseDecision(%q) = %s, %v; want %s", tc.in, got, err, tc.want)
		}
	}
}

type stubSource struct {
	fetched *model.Fetched
	err     error
}

func (s stubSource) Collect(context.Context, string, int) (*model.Fetched, error) { return s.fetched, s.err }

type daysSource struct {
	days []int
	bars []model.OHLCV
}

func (s *daysSource) Collect(_ context.Context, symbol string, days int) (*model.Fetched, error) {
	s.days = append(s.days, days)
	return &model.Fetched{Symbol: symbol, Source: "stub", Bars: s.bars}, nil
}

type recordingPublisher struct {
	published []*model.Analysis
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, a *model.Analysis) error {
	p.published = append(p.published, a)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type countingObserver struct{ signals, failures int }

func (c *countingObserver) ObserveSignal(model.SignalResult) { c.signals++ }
func (c *countingObserver) PublishFailed()                   { c.failures++ }

func testStore(t *testing.T) *config.Store {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return config.NewStaticStore(cfg)
}

func flatSeries(n int) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: 100, High: 100, Low: 100, Close: 100, Volume: 1000}
	}
	return bars
}

func TestAnalyzer_FlatSeries(t *testing.T) {
	src := stubSource{fetched: &model.Fetched{Symbol: "005930", Source: "naver", Bars: flatSeries(25)}}
	pub := &recordingPublisher{err: errors.New("broker down")}
	obs := &countingObserver{}
	a := NewAnalyzer(src, testStore(t), pub, obs)

	an, err := a.Analyze(context.Background(), "005930", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if an.Signal.Recommendation != model.RecommendBuy || an.Signal.StrengthPct != 1 || an.Signal.Level != model.LevelAdequate {
		t.Errorf("unexpected signal %+v", an.Signal)
	}
	if an.DecisionRequested != "BUY" || an.Rows != 25 || an.LastDate != "2024-01-25" || an.Source != "naver" {
		t.Errorf("unexpected analysis metadata %+v", an)
	}
	if an.Indicators.RSI != 50 || an.Indicators.OBVScore != 50 {
		t.Errorf("expected neutral indicators, got %+v", an.Indicators)
	}
	if len(pub.published) != 1 {
		t.Errorf("expected one publish attempt, got %d", len(pub.published))
	}
	if obs.signals != 1 || obs.failures != 1 {
		t.Errorf("expected publish failure to be counted, got %+v", obs)
	}

	sell, err := a.Analyze(context.Background(), "005930", "sell")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if sell.Signal.Recommendation != model.RecommendSellRejected || sell.Signal.Level != model.LevelBelowThreshold {
		t.Errorf("unexpected sell signal %+v", sell.Signal)
	}
}

func TestAnalyzer_ReloadedDaysReachCollect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("indicators:\n  days: 60\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := config.NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	src := &daysSource{bars: flatSeries(25)}
	a := NewAnalyzer(src, store, nil, nil)

	if _, err := a.Analyze(context.Background(), "AAPL", "buy"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if err := os.WriteFile(path, []byte("indicators:\n  days: 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, err := a.Analyze(context.Background(), "AAPL", "buy"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(src.days) != 2 || src.days[0] != 60 || src.days[1] != 200 {
		t.Errorf("expected days [60 200], got %v", src.days)
	}
}

func TestAnalyzer_Errors(t *testing.T) {
	a := NewAnalyzer(stubSource{err: collector.ErrNoData}, testStore(t), nil, nil)
	if _, err := a.Analyze(context.Background(), "ZZZZ", "buy"); !errors.Is(err, collector.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if _, err := a.Analyze(context.Background(), "AAPL", "maybe"); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestAnalyzer_Score(t *testing.T) {
	a := NewAnalyzer(stubSource{}, testStore(t), nil, nil)

	sig, err := a.Score(IndicatorInput{CCI: -150, RSI: 20, OBVTrend: 1}, "buy")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// Missing OBV score is derived from the positive trend.
	if sig.Components["OBV"] != 100 || sig.Score != 100 {
		t.Errorf("expected trend-derived OBV component 100, got %+v", sig.Components)
	}

	obv := 10.0
	sig, err = a.Score(IndicatorInput{CCI: 0, RSI: 50, OBVTrend: 1, OBVScore: &obv}, "sell")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if sig.Components["OBV"] != 90 {
		t.Errorf("expected explicit OBV score used, got %+v", sig.Components)
	}
}
