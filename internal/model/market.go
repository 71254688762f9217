package model

import (
	"sort"
	"time"
)

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// SortBars returns a copy of bars ordered by time. Bars sharing a date keep
// their arrival order.
func SortBars(bars []OHLCV) []OHLCV {
	out := make([]OHLCV, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// Fetched holds a cleaned daily series and where it came from.
type Fetched struct {
	Symbol    string    `json:"symbol"`
	Source    string    `json:"source"`
	Bars      []OHLCV   `json:"bars"`
	FetchedAt time.Time `json:"fetched_at"`
}

// LastDate returns the date of the most recent bar, or "" for an empty series.
func (f *Fetched) LastDate() string {
	if f == nil || len(f.Bars) == 0 {
		return ""
	}
	return f.Bars[len(f.Bars)-1].Time.Format("2006-01-02")
}
