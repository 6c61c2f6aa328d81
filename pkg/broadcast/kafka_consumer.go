package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"lob/pkg/lob"
	"lob/pkg/multisymbol"
)

// OrderMessage is the JSON payload consumed from a live order-intake topic:
// one order action per message, the live counterpart to a marketdata.CSV
// line.
type OrderMessage struct {
	Symbol string      `json:"symbol"`
	Action string      `json:"action"` // ADD/SUBMIT, CANCEL, REPLACE
	ID     lob.OrderID `json:"order_id"`
	Side   string      `json:"side"`
	Price  lob.Price   `json:"price"`
	Qty    uint64      `json:"qty"`
	Type   string      `json:"order_type"`
}

// ConsumerConfig configures a live order-intake consumer.
type ConsumerConfig struct {
	Brokers    []string
	GroupID    string
	Topic      string
	MaxRetries int
	BackoffMin time.Duration
	BackoffMax time.Duration
	DLQTopic   string
}

// OrderConsumer reads OrderMessages from Kafka and dispatches each one to
// the matching symbol's engine via registry, retrying transient handler
// failures with backoff before routing to a dead-letter topic.
type OrderConsumer struct {
	r          *kafka.Reader
	cfg        ConsumerConfig
	registry   *multisymbol.Registry
	prodForDLQ *Producer
}

// NewOrderConsumer constructs a consumer bound to registry. If
// cfg.DLQTopic is empty, exhausted retries are dropped rather than
// dead-lettered.
func NewOrderConsumer(cfg ConsumerConfig, registry *multisymbol.Registry) *OrderConsumer {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffMin == 0 {
		cfg.BackoffMin = 100 * time.Millisecond
	}
	if cfg.BackoffMax == 0 {
		cfg.BackoffMax = 10 * time.Second
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})

	var dlqProducer *Producer
	if cfg.DLQTopic != "" {
		dlqProducer = NewProducer(ProducerConfig{Brokers: cfg.Brokers})
	}

	return &OrderConsumer{r: r, cfg: cfg, registry: registry, prodForDLQ: dlqProducer}
}

// Close releases the reader and any DLQ producer.
func (c *OrderConsumer) Close() error {
	if c == nil {
		return nil
	}
	if c.prodForDLQ != nil {
		_ = c.prodForDLQ.Close()
	}
	if c.r != nil {
		return c.r.Close()
	}
	return nil
}

// Run reads messages until ctx is cancelled, dispatching each to
// registry. A message that fails to parse or apply is retried up to
// MaxRetries times with backoff, then dead-lettered (if DLQTopic is set)
// and committed regardless so a poison message never wedges the consumer.
func (c *OrderConsumer) Run(ctx context.Context) error {
	if c == nil || c.r == nil {
		return errors.New("broadcast: consumer not initialized")
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("broadcast: fetch message: %w", err)
		}

		c.handleWithRetry(ctx, m)

		if err := c.r.CommitMessages(ctx, m); err != nil {
			return fmt.Errorf("broadcast: commit message: %w", err)
		}
	}
}

func (c *OrderConsumer) handleWithRetry(ctx context.Context, m kafka.Message) {
	attempt := 0
	for {
		if c.apply(m.Value) {
			return
		}
		attempt++
		if attempt > c.cfg.MaxRetries {
			if c.cfg.DLQTopic != "" && c.prodForDLQ != nil {
				_ = c.prodForDLQ.w.WriteMessages(ctx, kafka.Message{
					Topic: c.cfg.DLQTopic,
					Key:   m.Key,
					Value: m.Value,
				})
			}
			return
		}
		select {
		case <-time.After(backoffDuration(c.cfg.BackoffMin, c.cfg.BackoffMax, attempt)):
		case <-ctx.Done():
			return
		}
	}
}

func (c *OrderConsumer) apply(payload []byte) bool {
	var msg OrderMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return false
	}

	switch msg.Action {
	case "ADD", "SUBMIT":
		return c.registry.Submit(msg.Symbol, lob.Order{
			ID:    msg.ID,
			Side:  parseOrderSide(msg.Side),
			Price: msg.Price,
			Qty:   msg.Qty,
			Type:  parseOrderKind(msg.Type),
		})
	case "CANCEL":
		return c.registry.Cancel(msg.Symbol, msg.ID)
	case "REPLACE":
		return c.registry.Replace(msg.Symbol, msg.ID, msg.Price, msg.Qty)
	default:
		return false
	}
}

func parseOrderSide(s string) lob.Side {
	switch s {
	case "BUY", "Buy", "B":
		return lob.Buy
	default:
		return lob.Sell
	}
}

func parseOrderKind(s string) lob.OrderType {
	switch s {
	case "MARKET", "Market":
		return lob.Market
	case "IOC":
		return lob.IOC
	case "FOK":
		return lob.FOK
	default:
		return lob.Limit
	}
}
