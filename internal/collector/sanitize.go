package collector

import (
	"math"

	"SignalDesk/internal/model"
)

// Sanitize drops unusable rows, orders the rest by date and keeps the most
// recent `days` bars. days <= 0 keeps everything.
func Sanitize(bars []model.OHLCV, days int) []model.OHLCV {
	clean := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if b.Time.IsZero() || !validPrice(b.Open) || !validPrice(b.High) || !validPrice(b.Low) || !validPrice(b.Close) {
			continue
		}
		if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) || b.Volume < 0 {
			continue
		}
		clean = append(clean, b)
	}
	clean = model.SortBars(clean)
	if days > 0 && len(clean) > days {
		clean = clean[len(clean)-days:]
	}
	return clean
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
