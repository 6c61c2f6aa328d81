package broadcast

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lob/pkg/logging"
)

// RedisConfig configures the connection used by ConnectRedisWithBackoff.
type RedisConfig struct {
	ConnectionURL       string `yaml:"connection_url"`
	PoolSize            int    `yaml:"pool_size"`
	DialTimeoutSeconds  int    `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `yaml:"idle_timeout_seconds"`
}

// ConnectRedisWithBackoff dials Redis, retrying with exponential backoff
// until it succeeds or ctx is cancelled. Mirrors this codebase's
// InitPostgresWithBackoff pattern for every outbound dependency the
// broadcaster needs at startup.
func ConnectRedisWithBackoff(ctx context.Context, cfg RedisConfig, logger *logging.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("broadcast: parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	opts.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	opts.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	opts.ConnMaxIdleTime = time.Duration(cfg.IdleTimeoutSeconds) * time.Second

	client := redis.NewClient(opts)

	boff := backoff.NewExponentialBackOff()
	boff.MaxElapsedTime = 0 // never give up on elapsed time; only ctx stops the loop
	err = backoff.Retry(func() error {
		pingErr := client.Ping(ctx).Err()
		if pingErr != nil && logger != nil {
			logger.Warn(ctx, "broadcast: redis ping failed", zap.Error(pingErr))
		}
		return pingErr
	}, backoff.WithContext(boff, ctx))
	if err != nil {
		return nil, fmt.Errorf("broadcast: connect redis: %w", err)
	}
	return client, nil
}

// Publisher fans out one engine event to every configured sink. Every
// sink is optional: a nil field is skipped. A failure on one sink never
// blocks or skips the others.
type Publisher struct {
	KafkaTopic     string
	Kafka          *Producer
	Redis          *StreamClient
	Hub            *Hub
	Logger         *logging.Logger
	PublishTimeout time.Duration
}

// Publish delivers ev for symbol to every configured sink, logging (but
// not returning) individual sink failures so one broken transport never
// takes down the others.
func (p *Publisher) Publish(ctx context.Context, symbol string, ev EventMessage) {
	if p.Hub != nil {
		if err := p.Hub.Broadcast(ev); err != nil {
			p.warn(ctx, "websocket broadcast failed", symbol, err)
		}
	}

	timeout := p.PublishTimeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	pubCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if p.Kafka != nil {
		if err := p.Kafka.PublishEvent(pubCtx, p.KafkaTopic, symbol, ev); err != nil {
			p.warn(ctx, "kafka publish failed", symbol, err)
		}
	}
	if p.Redis != nil {
		if _, err := p.Redis.PublishEvent(pubCtx, symbol, ev); err != nil {
			p.warn(ctx, "redis publish failed", symbol, err)
		}
	}
}

func (p *Publisher) warn(ctx context.Context, msg, symbol string, err error) {
	if p.Logger == nil {
		return
	}
	p.Logger.Warn(ctx, msg, zap.String("symbol", symbol), zap.Error(err))
}

// Close closes the Kafka producer, if one is set. The Redis client and the
// hub's client connections are not closed here.
func (p *Publisher) Close() error {
	if p.Kafka != nil {
		return p.Kafka.Close()
	}
	return nil
}
