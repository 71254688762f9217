package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"SignalDesk/internal/model"
)

// Publisher emits generated signals to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, a *model.Analysis) error
	Close() error
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) Publish(context.Context, *model.Analysis) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }

// KafkaPublisher sends DecisionEvents keyed by symbol.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a synchronous producer to brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0
	config.ClientID = EventSource
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	log.Printf("[INFO] kafka publisher connected to %v (topic=%s)", brokers, topic)
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer, e.g. a mock.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, a *model.Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(NewDecisionEvent(a))
	if err != nil {
		return fmt.Errorf("marshal decision event: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(a.Symbol),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(EventSignalGenerated)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", a.Symbol, err)
	}
	log.Printf("[INFO] published %s signal for %s (partition=%d offset=%d)", a.Signal.Recommendation, a.Symbol, partition, offset)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
