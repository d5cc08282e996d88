package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaConfig configures the Kafka analytics sink.
type KafkaConfig struct {
	// Brokers is the list of Kafka/Redpanda broker addresses.
	Brokers []string

	// Topic is the topic track events are published to.
	// Default: "atrium.analytics".
	Topic string
}

// TrackEvent is the wire envelope for a single analytics event.
type TrackEvent struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// KafkaSink publishes track events to a Kafka topic. Delivery is
// asynchronous: Track enqueues the record and returns immediately, and
// produce failures are logged rather than surfaced.
type KafkaSink struct {
	client *kgo.Client
	topic  string
	log    hclog.Logger
}

// NewKafkaSink creates a Kafka-backed analytics sink.
func NewKafkaSink(cfg KafkaConfig, log hclog.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker address is required")
	}
	if cfg.Topic == "" {
		cfg.Topic = "atrium.analytics"
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating kafka client: %w", err)
	}

	return &KafkaSink{
		client: client,
		topic:  cfg.Topic,
		log:    log.Named("analytics"),
	}, nil
}

func (s *KafkaSink) Track(event string, properties map[string]any) {
	payload, err := json.Marshal(TrackEvent{
		Event:      event,
		Properties: properties,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("error marshaling track event", "event", event, "error", err)
		return
	}

	record := &kgo.Record{
		Key:   []byte(event),
		Value: payload,
	}
	s.client.Produce(context.Background(), record, func(_ *kgo.Record, err error) {
		if err != nil {
			s.log.Warn("track event delivery failed",
				"event", event,
				"topic", s.topic,
				"error", err,
			)
		}
	})
}

// Close flushes buffered records and releases the underlying client.
func (s *KafkaSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Flush(ctx); err != nil {
		s.client.Close()
		return fmt.Errorf("error flushing analytics records: %w", err)
	}
	s.client.Close()
	return nil
}
