package service

import (
	"errors"
	"fmt"
	"strings"

	"SignalDesk/internal/model"
)

var ErrInvalidDecision = errors.New("invalid decision")

var decisionAliases = map[string]model.Decision{
	"buy":   model.DecisionBuy,
	"b":     model.DecisionBuy,
	"long":  model.DecisionBuy,
	"매수":    model.DecisionBuy,
	"sell":  model.DecisionSell,
	"s":     model.DecisionSell,
	"short": model.DecisionSell,
	"매도":    model.DecisionSell,
}

// ParseDecision reads a user-supplied decision. Empty input means buy.
func ParseDecision(raw string) (model.Decision, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return model.DecisionBuy, nil
	}
	if d, ok := decisionAliases[s]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q (want buy or sell)", ErrInvalidDecision, raw)
}
