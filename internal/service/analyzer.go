package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"SignalDesk/internal/calculator"
	"SignalDesk/internal/config"
	"SignalDesk/internal/model"
	"SignalDesk/internal/publisher"
	"SignalDesk/internal/strategy"
)

// SeriesSource resolves a symbol to a clean daily series.
type SeriesSource interface {
	Collect(ctx context.Context, symbol string, days int) (*model.Fetched, error)
}

// SignalObserver is told about every generated signal.
type SignalObserver interface {
	ObserveSignal(sig model.SignalResult)
	PublishFailed()
}

// Analyzer runs the fetch, indicator and scoring pipeline for one symbol.
type Analyzer struct {
	source    SeriesSource
	configs   *config.Store
	publisher publisher.Publisher
	observer  SignalObserver
	now       func() time.Time
}

// NewAnalyzer wires an analyzer. pub and obs may be nil.
func NewAnalyzer(source SeriesSource, configs *config.Store, pub publisher.Publisher, obs SignalObserver) *Analyzer {
	if pub == nil {
		pub = publisher.NewNoopPublisher()
	}
	return &Analyzer{source: source, configs: configs, publisher: pub, observer: obs, now: time.Now}
}

// Analyze fetches the symbol's history and scores it for the requested decision.
func (a *Analyzer) Analyze(ctx context.Context, symbol, decision string) (*model.Analysis, error) {
	d, err := ParseDecision(decision)
	if err != nil {
		return nil, err
	}
	// one snapshot for the whole request, so a reload cannot mix settings
	cfg := a.configs.Current()
	fetched, err := a.source.Collect(ctx, symbol, cfg.Indicators.Days)
	if err != nil {
		return nil, err
	}

	ind := calculator.Compute(fetched.Bars, cfg.IndicatorParams())
	sig := strategy.Generate(ind, d, cfg.Scoring)

	analysis := &model.Analysis{
		Symbol:            fetched.Symbol,
		DecisionRequested: decision,
		Source:            fetched.Source,
		Rows:              len(fetched.Bars),
		LastDate:          fetched.LastDate(),
		Indicators:        ind,
		Signal:            sig,
		GeneratedAt:       a.now(),
	}
	if analysis.DecisionRequested == "" {
		analysis.DecisionRequested = string(d)
	}

	log.Printf("[INFO] %s %s via %s (%d rows): %s score=%d %s",
		analysis.Symbol, d, analysis.Source, analysis.Rows, sig.Recommendation, sig.Score, sig.Strength)

	if a.observer != nil {
		a.observer.ObserveSignal(sig)
	}
	if err := a.publisher.Publish(ctx, analysis); err != nil {
		log.Printf("[WARN] publish signal for %s: %v", analysis.Symbol, err)
		if a.observer != nil {
			a.observer.PublishFailed()
		}
	}
	return analysis, nil
}

// IndicatorInput is caller-supplied indicator values. A nil OBVScore is
// derived from the OBV trend sign.
type IndicatorInput struct {
	CCI      float64  `json:"CCI"`
	RSI      float64  `json:"RSI"`
	OBVTrend float64  `json:"OBV_trend"`
	OBVScore *float64 `json:"OBV_SCORE,omitempty"`
}

// Snapshot converts the input into an indicator snapshot.
func (in IndicatorInput) Snapshot() model.IndicatorSnapshot {
	snap := model.IndicatorSnapshot{CCI: in.CCI, RSI: in.RSI, OBVTrend: in.OBVTrend}
	if in.OBVScore != nil {
		snap.OBVScore = *in.OBVScore
	} else {
		snap.OBVScore = strategy.OBVScoreFromTrend(in.OBVTrend)
	}
	return snap
}

// Score runs only the signal generator over caller-supplied indicators.
func (a *Analyzer) Score(in IndicatorInput, decision string) (model.SignalResult, error) {
	d, err := ParseDecision(decision)
	if err != nil {
		return model.SignalResult{}, err
	}
	sig := strategy.Generate(in.Snapshot(), d, a.configs.Current().Scoring)
	if a.observer != nil {
		a.observer.ObserveSignal(sig)
	}
	return sig, nil
}

// Config returns the active configuration snapshot.
func (a *Analyzer) Config() *config.Config {
	return a.configs.Current()
}

// Summary describes an analysis in one line.
func Summary(an *model.Analysis) string {
	s := an.Signal
	return fmt.Sprintf("%s %s → %s (score %d, %s)", an.Symbol, s.Decision, s.Recommendation, s.Score, s.Strength)
}
