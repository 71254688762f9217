package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama/mocks"

	"SignalDesk/internal/model"
)

func sampleAnalysis(rec model.Recommendation, pct int) *model.Analysis {
	return &model.Analysis{
		Symbol:      "AAPL",
		Source:      "yahoo",
		Rows:        120,
		LastDate:    "2024-04-09",
		Indicators:  model.IndicatorSnapshot{CCI: -120, RSI: 28, OBV: 5000, OBVTrend: 300, OBVScore: 72},
		GeneratedAt: time.Date(2024, 4, 9, 15, 0, 0, 0, time.UTC),
		Signal: model.SignalResult{
			Decision:       model.DecisionBuy,
			Recommendation: rec,
			Score:          90,
			StrengthPct:    pct,
			Level:          model.LevelVeryStrong,
			Components:     map[string]float64{"CCI": 100, "RSI": 100, "OBV": 72},
			Reasons:        []string{"CCI oversold", "OBV strong inflow", "RSI oversold (≤30)"},
		},
	}
}

func TestNewDecisionEvent(t *testing.T) {
	ev := NewDecisionEvent(sampleAnalysis(model.RecommendBuy, 81))
	if ev.EventType != EventSignalGenerated || ev.Source != EventSource {
		t.Errorf("unexpected envelope %+v", ev)
	}
	if ev.Data.Signal != SignalBuy || ev.Data.Confidence != 0.81 {
		t.Errorf("unexpected signal %s / %.2f", ev.Data.Signal, ev.Data.Confidence)
	}
	if len(ev.Data.RulesTriggered) != 3 || ev.Data.RulesTriggered[1].RuleName != "obv_component" {
		t.Errorf("unexpected rules %+v", ev.Data.RulesTriggered)
	}
	if ev.Data.IndicatorsSnapshot["OBV_SCORE"] != 72 {
		t.Errorf("expected OBV score in snapshot")
	}

	rejected := NewDecisionEvent(sampleAnalysis(model.RecommendSellRejected, 0))
	if rejected.Data.Signal != SignalWatch {
		t.Errorf("expected rejected signal published as WATCH, got %s", rejected.Data.Signal)
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev DecisionEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Data.Symbol != "AAPL" || ev.Data.Signal != SignalBuy {
			return fmt.Errorf("unexpected event %+v", ev.Data)
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(errors.New("broker down"))

	p := NewKafkaPublisherWithProducer(producer, "trading.decisions")
	if err := p.Publish(context.Background(), sampleAnalysis(model.RecommendBuy, 81)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Publish(context.Background(), sampleAnalysis(model.RecommendBuy, 81)); err == nil {
		t.Error("expected publish error from failing broker")
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
