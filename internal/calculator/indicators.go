package calculator

import (
	"fmt"
	"math"

	"SignalDesk/internal/model"
)

// Params are the indicator windows.
type Params struct {
	CCIWindow    int `yaml:"cci_window" json:"cci_window"`
	RSIPeriod    int `yaml:"rsi_period" json:"rsi_period"`
	OBVLag       int `yaml:"obv_lag" json:"obv_lag"`
	OBVStdWindow int `yaml:"obv_std_window" json:"obv_std_window"`
}

// Named window profiles. "sensitive" uses short windows and a 2-bar OBV lag
// so entries fire earlier; "standard" keeps the classic 20/14 windows and the
// longer 8-bar OBV lag.
var profiles = map[string]Params{
	"standard":  {CCIWindow: 20, RSIPeriod: 14, OBVLag: 8, OBVStdWindow: 20},
	"sensitive": {CCIWindow: 14, RSIPeriod: 9, OBVLag: 2, OBVStdWindow: 20},
}

// DefaultParams returns the "standard" profile.
func DefaultParams() Params {
	return profiles["standard"]
}

// Profile looks up a named window profile.
func Profile(name string) (Params, error) {
	p, ok := profiles[name]
	if !ok {
		return Params{}, fmt.Errorf("unknown indicator profile %q", name)
	}
	return p, nil
}

// WithDefaults fills every non-positive window from the standard profile.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.CCIWindow <= 0 {
		p.CCIWindow = d.CCIWindow
	}
	if p.RSIPeriod <= 0 {
		p.RSIPeriod = d.RSIPeriod
	}
	if p.OBVLag <= 0 {
		p.OBVLag = d.OBVLag
	}
	if p.OBVStdWindow < 2 {
		p.OBVStdWindow = d.OBVStdWindow
	}
	return p
}

// MinBars is the history needed before every indicator leaves its neutral default.
func (p Params) MinBars() int {
	p = p.WithDefaults()
	n := p.CCIWindow
	if p.RSIPeriod+1 > n {
		n = p.RSIPeriod + 1
	}
	if p.OBVLag+p.OBVStdWindow > n {
		n = p.OBVLag + p.OBVStdWindow
	}
	return n
}

// Compute sorts the series by date and evaluates every indicator at the last
// bar. It never fails: short series and degenerate windows resolve to the
// neutral values of model.NeutralSnapshot.
func Compute(bars []model.OHLCV, p Params) model.IndicatorSnapshot {
	p = p.WithDefaults()
	snap := model.NeutralSnapshot()
	if len(bars) == 0 {
		return snap
	}
	sorted := model.SortBars(bars)

	if v, err := CalculateCCI(sorted, p.CCIWindow); err == nil && finite(v) {
		snap.CCI = v
	}
	if v, err := CalculateRSI(sorted, p.RSIPeriod); err == nil && finite(v) {
		snap.RSI = v
	}
	if obv := OBVSeries(sorted); finite(obv[len(obv)-1]) {
		snap.OBV = obv[len(obv)-1]
	}
	if v, err := CalculateOBVTrend(sorted, p.OBVLag); err == nil && finite(v) {
		snap.OBVTrend = v
	}
	if v, err := CalculateOBVScore(sorted, p.OBVLag, p.OBVStdWindow); err == nil && finite(v) {
		snap.OBVScore = v
	}
	return snap
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
