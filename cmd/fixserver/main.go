package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lob/config"
	"lob/pkg/broadcast"
	"lob/pkg/fixgateway"
	"lob/pkg/lob"
	"lob/pkg/logging"
	"lob/pkg/multisymbol"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger, ctx := logging.GetLogger(ctx)

	registry := multisymbol.NewRegistry(lob.DefaultEngineConfig(), nil)
	for _, sym := range cfg.Symbols {
		engineCfg := lob.DefaultEngineConfig()
		if sym.TickSize > 0 {
			engineCfg.TickSize = decimal.NewFromFloat(sym.TickSize)
		}
		if sym.MaxOrders > 0 {
			engineCfg.MaxOrders = sym.MaxOrders
		}
		if sym.RingSize > 0 {
			engineCfg.RingSize = sym.RingSize
		}
		registry.AddSymbol(sym.Symbol, &engineCfg)
	}

	var publisher *broadcast.Publisher
	if len(cfg.Kafka.Brokers) > 0 || cfg.Redis.ConnectionURL != "" {
		publisher = &broadcast.Publisher{
			KafkaTopic: cfg.Kafka.EventsTopic,
			Hub:        broadcast.NewHub(),
			Logger:     logger,
		}
		if len(cfg.Kafka.Brokers) > 0 {
			publisher.Kafka = broadcast.NewProducer(broadcast.ProducerConfig{Brokers: cfg.Kafka.Brokers})
		}
		if cfg.Redis.ConnectionURL != "" {
			redisClient, err := broadcast.ConnectRedisWithBackoff(ctx, cfg.Redis, logger)
			if err != nil {
				logger.Error(ctx, "fixserver: connect redis failed", zap.Error(err))
			} else {
				publisher.Redis = broadcast.NewStreamClient(redisClient)
			}
		}
		defer publisher.Close()
	}

	server := fixgateway.NewServer(registry, logger, publisher)
	if err := server.Init(cfg.Fix.SettingsFile); err != nil {
		logger.Fatal(ctx, "fixserver: init failed", zap.Error(err))
	}
	if err := server.Start(); err != nil {
		logger.Fatal(ctx, "fixserver: start failed", zap.Error(err))
	}
	logger.Info(ctx, "fixserver: started, press Ctrl+C to exit")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	logger.Info(ctx, "fixserver: shutting down")
	server.Stop()
}
