package calculator

import (
	"errors"
	"math"

	"SignalDesk/internal/model"
)

// CalculateSMA computes the simple moving average of the last `period` values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// MeanAbsDeviation returns the mean absolute deviation of the last `period`
// values around their mean.
func MeanAbsDeviation(values []float64, period int) (float64, error) {
	mean, err := CalculateSMA(values, period)
	if err != nil {
		return 0, err
	}
	dev := 0.0
	for i := len(values) - period; i < len(values); i++ {
		dev += math.Abs(values[i] - mean)
	}
	return dev / float64(period), nil
}

// SampleStdDev returns the sample (n-1) standard deviation of the last
// `period` values. Needs at least two values.
func SampleStdDev(values []float64, period int) (float64, error) {
	if period < 2 {
		return 0, errors.New("period must be at least 2")
	}
	mean, err := CalculateSMA(values, period)
	if err != nil {
		return 0, err
	}
	ss := 0.0
	for i := len(values) - period; i < len(values); i++ {
		d := values[i] - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(period-1)), nil
}

func typicalPrices(bars []model.OHLCV) []float64 {
	tp := make([]float64, len(bars))
	for i, b := range bars {
		tp[i] = (b.High + b.Low + b.Close) / 3.0
	}
	return tp
}
