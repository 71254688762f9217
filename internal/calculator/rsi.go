package calculator

import (
	"errors"

	"SignalDesk/internal/model"
)

// wilderAvg is a running Wilder average: a plain mean over the first n
// samples, then avg = (avg*(n-1) + x) / n.
type wilderAvg struct {
	n     int
	count int
	value float64
}

func (w *wilderAvg) add(x float64) {
	if w.count < w.n {
		w.count++
		w.value += (x - w.value) / float64(w.count)
		return
	}
	w.value = (w.value*float64(w.n-1) + x) / float64(w.n)
}

// CalculateRSI computes the Wilder-smoothed RSI of the closes. It needs
// period+1 bars and reports a neutral 50 when there are fewer or when the
// closes never moved.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 50.0, nil
	}

	up := wilderAvg{n: period}
	down := wilderAvg{n: period}
	prev := bars[0].Close
	for _, b := range bars[1:] {
		diff := b.Close - prev
		prev = b.Close
		up.add(max(diff, 0))
		down.add(max(-diff, 0))
	}

	switch {
	case up.value == 0 && down.value == 0:
		return 50.0, nil
	case down.value == 0:
		return 100.0, nil
	}
	return 100.0 - 100.0/(1.0+up.value/down.value), nil
}
