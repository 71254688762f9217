package model

import "time"

// Decision is the trading action the caller asks about.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
)

// Recommendation is the verdict on the requested decision.
type Recommendation string

const (
	RecommendBuy          Recommendation = "BUY"
	RecommendBuyRejected  Recommendation = "BUY_REJECTED"
	RecommendSell         Recommendation = "SELL"
	RecommendSellRejected Recommendation = "SELL_REJECTED"
)

// Accepted reports whether the recommendation confirms the requested decision.
func (r Recommendation) Accepted() bool {
	return r == RecommendBuy || r == RecommendSell
}

// Level is the four-tier bucketing of the strength percent.
type Level string

const (
	LevelBelowThreshold Level = "BELOW_THRESHOLD"
	LevelAdequate       Level = "ADEQUATE"
	LevelStrong         Level = "STRONG"
	LevelVeryStrong     Level = "VERY_STRONG"
)

// Weights are the per-indicator weights of the aggregate score.
type Weights struct {
	CCI float64 `json:"cci" yaml:"cci"`
	RSI float64 `json:"rsi" yaml:"rsi"`
	OBV float64 `json:"obv" yaml:"obv"`
}

// Sum returns the total weight.
func (w Weights) Sum() float64 { return w.CCI + w.RSI + w.OBV }

// Thresholds is the {min, max} pair a signal was normalized against.
type Thresholds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SignalResult is the final output of the signal generator.
type SignalResult struct {
	Decision       Decision           `json:"decision"`
	Recommendation Recommendation     `json:"recommendation"`
	Score          int                `json:"score"`
	RawScore       float64            `json:"raw_score"`
	StrengthPct    int                `json:"strength_pct"`
	Strength       string             `json:"strength"`
	Level          Level              `json:"level"`
	LevelLabel     string             `json:"level_label"`
	Color          string             `json:"color"`
	Components     map[string]float64 `json:"components"`
	Reasons        []string           `json:"reasons"`
	Thresholds     Thresholds         `json:"thresholds"`
	Weights        Weights            `json:"weights"`
}

// Analysis ties a signal to the data it was computed from.
type Analysis struct {
	Symbol            string
	DecisionRequested string
	Source            string
	Rows              int
	LastDate          string
	Indicators        IndicatorSnapshot
	Signal            SignalResult
	GeneratedAt       time.Time
}
