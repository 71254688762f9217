package strategy

import "SignalDesk/internal/model"

// buyReasons explains each indicator from the buyer's side, ordered CCI, OBV, RSI.
func buyReasons(ind model.IndicatorSnapshot) []string {
	var cci, obv, rsi string
	switch {
	case ind.CCI <= -100:
		cci = "CCI oversold"
	case ind.CCI < 100:
		cci = "CCI neutral"
	default:
		cci = "CCI overbought"
	}
	switch {
	case ind.OBVScore >= 60:
		obv = "OBV strong inflow"
	case ind.OBVScore >= 40:
		obv = "OBV flat"
	default:
		obv = "OBV outflow"
	}
	switch {
	case ind.RSI <= 30:
		rsi = "RSI oversold (≤30)"
	case ind.RSI < 70:
		rsi = "RSI neutral (30~70)"
	default:
		rsi = "RSI overbought (≥70)"
	}
	return []string{cci, obv, rsi}
}

// sellReasons mirrors buyReasons from the seller's side.
func sellReasons(ind model.IndicatorSnapshot) []string {
	var cci, obv, rsi string
	switch {
	case ind.CCI >= 100:
		cci = "CCI overbought"
	case ind.CCI > -100:
		cci = "CCI neutral"
	default:
		cci = "CCI oversold"
	}
	switch {
	case ind.OBVScore <= 40:
		obv = "OBV strong outflow"
	case ind.OBVScore < 60:
		obv = "OBV flat"
	default:
		obv = "OBV inflow"
	}
	switch {
	case ind.RSI >= 70:
		rsi = "RSI overbought (≥70)"
	case ind.RSI > 30:
		rsi = "RSI neutral (30~70)"
	default:
		rsi = "RSI oversold (≤30)"
	}
	return []string{cci, obv, rsi}
}
