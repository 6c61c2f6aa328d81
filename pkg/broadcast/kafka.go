// Package broadcast fans out engine events to downstream consumers: Kafka
// topics, Redis Streams, and WebSocket subscribers. It also offers a
// Kafka-backed alternative to the CSV replay driver for live order intake.
// Every adapter here is a thin translation layer over *lob.MatchingEngine
// (or a *multisymbol.Registry): none of it touches book internals.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

// ProducerConfig configures the event publisher's Kafka writer.
type ProducerConfig struct {
	Brokers      []string
	Balancer     kafka.Balancer
	BatchSize    int
	BatchBytes   int64
	BatchTimeout time.Duration
}

// Producer publishes EventMessage payloads to Kafka, one partition per
// symbol (via key hashing) so per-symbol ordering is preserved downstream.
type Producer struct {
	w *kafka.Writer
}

// NewProducer constructs a producer with sensible low-latency defaults,
// matching the fire-and-forget delivery semantics appropriate for a market
// data feed: a dropped broadcast never blocks the matching engine.
func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.Balancer == nil {
		cfg.Balancer = &kafka.Hash{}
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = 1 << 20
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               cfg.Balancer,
		BatchSize:              cfg.BatchSize,
		BatchBytes:             cfg.BatchBytes,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireNone,
		Async:                  true,
	}
	return &Producer{w: w}
}

// PublishEvent marshals msg and writes it to topic keyed by symbol.
func (p *Producer) PublishEvent(ctx context.Context, topic, symbol string, msg EventMessage) error {
	if p == nil || p.w == nil {
		return errors.New("broadcast: producer not initialized")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("broadcast: marshal event: %w", err)
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(symbol),
		Value: body,
		Time:  time.Now(),
	})
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

// backoffDuration mirrors the exponential-with-jitter schedule used
// throughout this codebase's consumer retry loops.
func backoffDuration(min, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(float64(min) * math.Pow(2, float64(attempt-1)))
	if d > max {
		d = max
	}
	if d > 0 {
		d = time.Duration(rand.Int63n(int64(d)))
	}
	return d
}
