package calculator

import (
	"errors"
	"math"

	"SignalDesk/internal/model"
)

// obvSaturation divides the z-score before tanh; |z| of 1.5 lands at ~88 / ~12.
const obvSaturation = 1.5

// OBVSeries returns the running on-balance volume for every bar. The first
// bar starts the total at zero; unchanged closes leave it unchanged.
func OBVSeries(bars []model.OHLCV) []float64 {
	obv := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		obv[i] = obv[i-1]
		switch {
		case bars[i].Close > bars[i-1].Close:
			obv[i] += bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			obv[i] -= bars[i].Volume
		}
	}
	return obv
}

// CalculateOBVTrend returns OBV[last] - OBV[last-lag], or 0 without lag+1 bars.
func CalculateOBVTrend(bars []model.OHLCV, lag int) (float64, error) {
	if lag <= 0 {
		return 0, errors.New("lag must be positive")
	}
	if len(bars) < lag+1 {
		return 0, nil
	}
	obv := OBVSeries(bars)
	n := len(obv)
	return obv[n-1] - obv[n-1-lag], nil
}

// CalculateOBVScore maps the latest OBV trend onto 0~100 by z-scoring it
// against the rolling standard deviation of the trend and passing it through
// tanh. Needs `stdWindow` trend values; otherwise, or when the deviation is
// zero, the score is the neutral 50.
func CalculateOBVScore(bars []model.OHLCV, lag, stdWindow int) (float64, error) {
	if lag <= 0 {
		return 50, errors.New("lag must be positive")
	}
	if stdWindow < 2 {
		return 50, errors.New("std window must be at least 2")
	}
	if len(bars) < lag+stdWindow {
		return 50, nil
	}

	obv := OBVSeries(bars)
	trend := make([]float64, 0, len(obv)-lag)
	for i := lag; i < len(obv); i++ {
		trend = append(trend, obv[i]-obv[i-lag])
	}

	std, err := SampleStdDev(trend, stdWindow)
	if err != nil {
		return 50, err
	}
	if std == 0 || math.IsNaN(std) {
		return 50, nil
	}

	z := trend[len(trend)-1] / std
	return clamp(50+50*math.Tanh(z/obvSaturation), 0, 100), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
