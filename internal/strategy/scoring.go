package strategy

import (
	"errors"
	"fmt"

	"SignalDesk/internal/model"
)

// ScoringConfig holds the weights and thresholds Generate scores against.
// It is passed by value; nothing in this package keeps a copy.
type ScoringConfig struct {
	Weights       model.Weights `yaml:"weights" json:"weights"`
	BuyThreshold  float64       `yaml:"buy_threshold" json:"buy_threshold"`
	SellThreshold float64       `yaml:"sell_threshold" json:"sell_threshold"`
	MaxThreshold  float64       `yaml:"max_threshold" json:"max_threshold"`
}

// DefaultScoring: near-equal weights, easy entry at 50, conservative exit at 90.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Weights:       model.Weights{CCI: 0.33, RSI: 0.33, OBV: 0.34},
		BuyThreshold:  50,
		SellThreshold: 90,
		MaxThreshold:  100,
	}
}

// Threshold returns the active threshold for a decision.
func (c ScoringConfig) Threshold(d model.Decision) float64 {
	if d == model.DecisionSell {
		return c.SellThreshold
	}
	return c.BuyThreshold
}

// Validate rejects configurations that cannot be scored meaningfully.
// Weights that do not sum to 1 are accepted as-is.
func (c ScoringConfig) Validate() error {
	var errs []error
	w := c.Weights
	if w.CCI < 0 || w.RSI < 0 || w.OBV < 0 {
		errs = append(errs, fmt.Errorf("weights must be non-negative, got %+v", w))
	}
	if w.Sum() == 0 {
		errs = append(errs, errors.New("at least one weight must be positive"))
	}
	for name, v := range map[string]float64{"buy_threshold": c.BuyThreshold, "sell_threshold": c.SellThreshold} {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("%s must be within [0,100], got %g", name, v))
		}
	}
	return errors.Join(errs...)
}
