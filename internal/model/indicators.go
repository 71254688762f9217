package model

// IndicatorSnapshot holds the indicator values at the most recent bar.
type IndicatorSnapshot struct {
	CCI      float64 `json:"CCI"`
	RSI      float64 `json:"RSI"`
	OBV      float64 `json:"OBV"`
	OBVTrend float64 `json:"OBV_trend"`
	OBVScore float64 `json:"OBV_SCORE"` // 0 ~ 100, 50 is neutral
}

// NeutralSnapshot is what the calculator reports when no window has enough history.
func NeutralSnapshot() IndicatorSnapshot {
	return IndicatorSnapshot{CCI: 0, RSI: 50, OBV: 0, OBVTrend: 0, OBVScore: 50}
}
