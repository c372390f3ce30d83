package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string
	PublishTopic string

	SweepInterval  time.Duration
	SweepBatchSize int

	EnableExpirySweep bool
	EnableOutboxRelay bool
}

// fileConfig is the YAML shape of an optional config file. Env vars override
// anything set here.
type fileConfig struct {
	ServiceName  string   `yaml:"service_name"`
	HTTPPort     string   `yaml:"http_port"`
	PostgresDSN  string   `yaml:"postgres_dsn"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
	PublishTopic string   `yaml:"publish_topic"`

	SweepInterval  string `yaml:"sweep_interval"`
	SweepBatchSize int    `yaml:"sweep_batch_size"`
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName:    "tradepost",
		HTTPPort:       "8080",
		PublishTopic:   "tradepost.listings.published",
		SweepInterval:  time.Minute,
		SweepBatchSize: 100,
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		cfg.HTTPPort = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("PUBLISH_TOPIC"); v != "" {
		cfg.PublishTopic = v
	}
	if brokers := splitList(os.Getenv("KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.KafkaBrokers = brokers
	}
	if len(cfg.KafkaBrokers) == 0 {
		cfg.KafkaBrokers = []string{"localhost:9092"}
	}
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse SWEEP_INTERVAL: %w", err)
		}
		cfg.SweepInterval = interval
	}
	if v := os.Getenv("SWEEP_BATCH_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse SWEEP_BATCH_SIZE: %w", err)
		}
		cfg.SweepBatchSize = size
	}

	cfg.EnableExpirySweep = envBool("ENABLE_EXPIRY_SWEEP", true)
	cfg.EnableOutboxRelay = envBool("ENABLE_OUTBOX_RELAY", true)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if file.ServiceName != "" {
		cfg.ServiceName = file.ServiceName
	}
	if file.HTTPPort != "" {
		cfg.HTTPPort = file.HTTPPort
	}
	if file.PostgresDSN != "" {
		cfg.PostgresDSN = file.PostgresDSN
	}
	if len(file.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = file.KafkaBrokers
	}
	if file.PublishTopic != "" {
		cfg.PublishTopic = file.PublishTopic
	}
	if file.SweepInterval != "" {
		interval, err := time.ParseDuration(file.SweepInterval)
		if err != nil {
			return fmt.Errorf("parse sweep_interval: %w", err)
		}
		cfg.SweepInterval = interval
	}
	if file.SweepBatchSize > 0 {
		cfg.SweepBatchSize = file.SweepBatchSize
	}
	return nil
}

func splitList(raw string) []string {
	var values []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
