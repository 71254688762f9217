package calculator

import (
	"errors"

	"SignalDesk/internal/model"
)

// cciConstant is Lambert's scaling factor: roughly 70-80% of values fall in ±100.
const cciConstant = 0.015

// CalculateCCI computes the Commodity Channel Index at the last bar.
// Returns 0 when fewer than `window` bars exist or the typical price has no
// deviation over the window.
func CalculateCCI(bars []model.OHLCV, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(bars) < window {
		return 0, nil
	}

	tp := typicalPrices(bars)
	sma, err := CalculateSMA(tp, window)
	if err != nil {
		return 0, err
	}
	mad, err := MeanAbsDeviation(tp, window)
	if err != nil {
		return 0, err
	}
	if mad == 0 {
		return 0, nil
	}
	return (tp[len(tp)-1] - sma) / (cciConstant * mad), nil
}
