package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"lob/pkg/broadcast"
)

// SymbolConfig configures one traded symbol's engine.
type SymbolConfig struct {
	Symbol    string  `yaml:"symbol"`
	TickSize  float64 `yaml:"tick_size"`
	MaxOrders int     `yaml:"max_orders"`
	RingSize  int     `yaml:"ring_size"`
}

// KafkaConfig configures both the outbound event publisher and the
// inbound live order-intake consumer.
type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	EventsTopic string   `yaml:"events_topic"`
	OrdersTopic string   `yaml:"orders_topic"`
	GroupID     string   `yaml:"group_id"`
	DLQTopic    string   `yaml:"dlq_topic"`
}

// FixConfig configures the FIX 4.4 order-entry acceptor.
type FixConfig struct {
	SettingsFile string `yaml:"settings_file"`
}

// AppConfig is the top-level configuration for the gateway process: one
// engine per symbol, plus the transports that sit in front of it.
type AppConfig struct {
	ServiceName string                `yaml:"service_name"`
	Symbols     []SymbolConfig        `yaml:"symbols"`
	Kafka       KafkaConfig           `yaml:"kafka"`
	Redis       broadcast.RedisConfig `yaml:"redis"`
	Fix         FixConfig             `yaml:"fix"`
}

// Load reads YAML config from filePath (or $CONFIG_FILE if empty),
// expanding environment variables first.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	sugar := zap.S().With("func", "config.Load", "filePath", filePath)
	sugar.Debug("loading config")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(configBytes, cfg); err != nil {
		sugar.Error("failed to parse config file")
		return nil, err
	}

	return cfg, nil
}
