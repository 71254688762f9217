package publisher

import (
	"strings"
	"time"

	"SignalDesk/internal/model"
)

const (
	EventSignalGenerated = "SIGNAL_GENERATED"
	EventSource          = "signaldesk"
	SchemaVersion        = "1.0"
)

// Signal types understood by downstream alerting.
const (
	SignalBuy   = "BUY"
	SignalSell  = "SELL"
	SignalWatch = "WATCH"
)

// DecisionEvent is the message published for every generated signal.
type DecisionEvent struct {
	EventType     string       `json:"event_type"`
	Source        string       `json:"source"`
	SchemaVersion string       `json:"schema_version"`
	Timestamp     time.Time    `json:"timestamp"`
	Data          DecisionData `json:"data"`
}

// DecisionData contains the actual decision information
type DecisionData struct {
	Symbol             string                 `json:"symbol"`
	Signal             string                 `json:"signal"` // BUY, SELL, WATCH
	Confidence         float64                `json:"confidence"`
	PrimaryReasoning   string                 `json:"primary_reasoning"`
	RulesTriggered     []RuleResult           `json:"rules_triggered"`
	IndicatorsSnapshot map[string]float64     `json:"indicators_snapshot"`
	Metadata           map[string]interface{} `json:"metadata"`
}

// RuleResult is one weighted component of the score.
type RuleResult struct {
	RuleName   string  `json:"rule_name"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// NewDecisionEvent maps an analysis onto the event schema. Rejected
// recommendations are published as WATCH.
func NewDecisionEvent(a *model.Analysis) DecisionEvent {
	sig := a.Signal
	signal := SignalWatch
	switch sig.Recommendation {
	case model.RecommendBuy:
		signal = SignalBuy
	case model.RecommendSell:
		signal = SignalSell
	}

	rules := make([]RuleResult, 0, len(sig.Components))
	for i, name := range []string{"CCI", "OBV", "RSI"} {
		v, ok := sig.Components[name]
		if !ok {
			continue
		}
		reason := ""
		if i < len(sig.Reasons) {
			reason = sig.Reasons[i]
		}
		rules = append(rules, RuleResult{RuleName: strings.ToLower(name) + "_component", Confidence: v / 100, Reasoning: reason})
	}

	return DecisionEvent{
		EventType:     EventSignalGenerated,
		Source:        EventSource,
		SchemaVersion: SchemaVersion,
		Timestamp:     a.GeneratedAt.UTC(),
		Data: DecisionData{
			Symbol:           a.Symbol,
			Signal:           signal,
			Confidence:       float64(sig.StrengthPct) / 100,
			PrimaryReasoning: strings.Join(sig.Reasons, " / "),
			RulesTriggered:   rules,
			IndicatorsSnapshot: map[string]float64{
				"CCI":       a.Indicators.CCI,
				"RSI":       a.Indicators.RSI,
				"OBV":       a.Indicators.OBV,
				"OBV_trend": a.Indicators.OBVTrend,
				"OBV_SCORE": a.Indicators.OBVScore,
			},
			Metadata: map[string]interface{}{
				"decision_requested": string(sig.Decision),
				"recommendation":     string(sig.Recommendation),
				"score":              sig.Score,
				"level":              string(sig.Level),
				"data_source":        a.Source,
				"rows":               a.Rows,
				"last_date":          a.LastDate,
			},
		},
	}
}
