package strategy

import "math"

// Component names, also the keys of SignalResult.Components.
const (
	ComponentCCI = "CCI"
	ComponentRSI = "RSI"
	ComponentOBV = "OBV"
)

// Domain bounds of the linear component maps.
const (
	cciLow  = -100.0
	cciHigh = 100.0
	rsiLow  = 30.0
	rsiHigh = 70.0
)

// scaleLinear maps x from [x0,x1] onto [y0,y1], clamping outside the domain.
// x0 > x1 is allowed and inverts the mapping direction.
func scaleLinear(x, x0, x1, y0, y1 float64) float64 {
	if math.IsNaN(x) {
		return (y0 + y1) / 2
	}
	lo, hi := x0, x1
	ylo, yhi := y0, y1
	if lo > hi {
		lo, hi = hi, lo
		ylo, yhi = yhi, ylo
	}
	if x <= lo {
		return ylo
	}
	if x >= hi {
		return yhi
	}
	return ylo + (x-lo)*(yhi-ylo)/(hi-lo)
}

// buyComponents favours oversold CCI/RSI and OBV inflow.
func buyComponents(cci, rsi, obvScore float64) map[string]float64 {
	return map[string]float64{
		ComponentCCI: scaleLinear(cci, cciLow, cciHigh, 100, 0),
		ComponentRSI: scaleLinear(rsi, rsiLow, rsiHigh, 100, 0),
		ComponentOBV: clampScore(obvScore),
	}
}

// sellComponents favours overbought CCI/RSI and OBV outflow.
func sellComponents(cci, rsi, obvScore float64) map[string]float64 {
	return map[string]float64{
		ComponentCCI: scaleLinear(cci, cciLow, cciHigh, 0, 100),
		ComponentRSI: scaleLinear(rsi, rsiLow, rsiHigh, 0, 100),
		ComponentOBV: 100 - clampScore(obvScore),
	}
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 50
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// OBVScoreFromTrend derives an OBV score from the trend sign for callers that
// only carry the raw OBV trend.
func OBVScoreFromTrend(trend float64) float64 {
	switch {
	case trend > 0:
		return 100
	case trend < 0:
		return 0
	}
	return 50
}
