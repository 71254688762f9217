package strategy

import (
	"fmt"
	"math"

	"SignalDesk/internal/model"
)

// Generate scores indicators for the requested decision. Anything other than
// DecisionSell is scored as a buy.
func Generate(ind model.IndicatorSnapshot, d model.Decision, cfg ScoringConfig) model.SignalResult {
	if d != model.DecisionSell {
		d = model.DecisionBuy
	}

	// Step a: per-indicator components on 0~100
	var components map[string]float64
	var reasons []string
	if d == model.DecisionSell {
		components = sellComponents(ind.CCI, ind.RSI, ind.OBVScore)
		reasons = sellReasons(ind)
	} else {
		components = buyComponents(ind.CCI, ind.RSI, ind.OBVScore)
		reasons = buyReasons(ind)
	}

	// Step b: weighted sum, never renormalized
	w := cfg.Weights
	raw := w.CCI*components[ComponentCCI] + w.RSI*components[ComponentRSI] + w.OBV*components[ComponentOBV]
	raw = math.Round(raw*1e9) / 1e9

	// Step c: threshold and percent strength
	threshold := cfg.Threshold(d)
	pct := strengthPercent(raw, threshold, cfg.MaxThreshold)

	// Step d: recommendation
	rec := model.RecommendBuy
	rejected := model.RecommendBuyRejected
	if d == model.DecisionSell {
		rec, rejected = model.RecommendSell, model.RecommendSellRejected
	}
	if pct == 0 {
		rec = rejected
	}

	// Step e: level, color
	t := mapTier(pct)

	return model.SignalResult{
		Decision:       d,
		Recommendation: rec,
		Score:          int(math.Round(raw)),
		RawScore:       raw,
		StrengthPct:    pct,
		Strength:       fmt.Sprintf("%s / %d%%", t.Label, pct),
		Level:          t.Level,
		LevelLabel:     t.Label,
		Color:          LevelColor(d, t.Level),
		Components:     components,
		Reasons:        reasons,
		Thresholds:     model.Thresholds{Min: threshold, Max: cfg.MaxThreshold},
		Weights:        w,
	}
}

// strengthPercent rescales score from [threshold, max] onto [1,100]. Below the
// threshold it is 0; a degenerate range (maxThreshold <= threshold) collapses
// to 100.
func strengthPercent(score, threshold, maxThreshold float64) int {
	if math.IsNaN(score) || score < threshold {
		return 0
	}
	if maxThreshold <= threshold {
		return 100
	}
	pct := 1 + 99*(score-threshold)/(maxThreshold-threshold)
	return int(math.Round(clampScore(pct)))
}
