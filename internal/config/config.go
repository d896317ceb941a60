package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	DataDir    string
	OutputPath string
	LogLevel   string
	LogFormat  string

	// Optional Kafka publishing of the assembled document.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// MetricsTextfile, when set, receives Prometheus metrics at the end of a run.
	MetricsTextfile string

	// ShutdownTimeout bounds the Kafka publish and close.
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		DataDir:         sharedcfg.EnvOrDefault("DATA_DIR", "."),
		OutputPath:      sharedcfg.EnvOrDefault("OUTPUT_PATH", "data.json"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "climate-datasets"),
		KafkaEnabled:    len(brokers) > 0,
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", cfg.LogFormat)
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.MetricsTextfile != "" && !strings.HasSuffix(cfg.MetricsTextfile, ".prom") {
		return nil, fmt.Errorf("invalid METRICS_TEXTFILE %q: textfile collector files must end in .prom", cfg.MetricsTextfile)
	}

	return cfg, nil
}
