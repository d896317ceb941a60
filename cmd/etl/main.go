package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	fileadapter "github.com/couchcryptid/climate-data-etl/internal/adapter/file"
	kafkaadapter "github.com/couchcryptid/climate-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	"github.com/couchcryptid/climate-data-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loaders := pipeline.MultiLoader{fileadapter.NewWriter(cfg.OutputPath, logger)}
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, clock, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	reader := fileadapter.NewSourceDir(cfg.DataDir)
	p := pipeline.New(reader, loaders, logger, metrics, clock)

	code := 0
	if err := p.Run(ctx, pipeline.DefaultRegistry()); err != nil {
		logger.Error("pipeline error", "error", err)
		code = 1
	}

	if cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, prometheus.DefaultGatherer); err != nil {
			logger.Error("metrics textfile write error", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	return code
}
