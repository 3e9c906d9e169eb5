// Package config loads the fabric's process configuration from
// environment variables layered over an optional YAML file, and provides
// the static scheduling tables (priorities, predicted durations, memory
// limits). The tables are built in by DefaultTables; Load does not read
// them from the file or the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds process-wide settings shared by every cmd/ entrypoint.
type Config struct {
	ProxyURL     string
	BalancerAddr string
	BackendAddr  string
	BackendURL   string

	ProcessModel string // "in-process" or "fork"

	KafkaBrokers []string
	KafkaGroupID string

	LogDir   string
	LogLevel string

	MetricsIntervalSeconds  float64
	PredictIntervalSeconds  float64
	PerceptorSlotSeconds    float64
}

var defaults = map[string]interface{}{
	"proxy_url":                "http://localhost:8000",
	"balancer_addr":            ":8000",
	"backend_addr":             ":8081",
	"backend_url":              "http://localhost:8081",
	"process_model":            "in-process",
	"kafka_brokers":            "localhost:9092",
	"kafka_group_id":           "fabric",
	"log_dir":                  "logs",
	"log_level":                "INFO",
	"metrics_interval_seconds": 0.5,
	"predict_interval_seconds": 0.5,
	"perceptor_slot_seconds":   0.1,
}

// Load builds a Config from defaults, an optional YAML file (path via
// FABRIC_CONFIG_FILE) and environment variables prefixed FABRIC_, in that
// increasing order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	if path := os.Getenv("FABRIC_CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: loading file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider("FABRIC_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FABRIC_"))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	cfg := &Config{
		ProxyURL:               k.String("proxy_url"),
		BalancerAddr:           k.String("balancer_addr"),
		BackendAddr:            k.String("backend_addr"),
		BackendURL:             k.String("backend_url"),
		ProcessModel:           k.String("process_model"),
		KafkaGroupID:           k.String("kafka_group_id"),
		LogDir:                 k.String("log_dir"),
		LogLevel:               k.String("log_level"),
		MetricsIntervalSeconds: k.Float64("metrics_interval_seconds"),
		PredictIntervalSeconds: k.Float64("predict_interval_seconds"),
		PerceptorSlotSeconds:   k.Float64("perceptor_slot_seconds"),
	}
	brokers := k.String("kafka_brokers")
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	return cfg, nil
}

// MetricsInterval is the configured poll period as a time.Duration.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalSeconds * float64(time.Second))
}

// PredictInterval is the configured bias-recalibration period.
func (c *Config) PredictInterval() time.Duration {
	return time.Duration(c.PredictIntervalSeconds * float64(time.Second))
}

// PerceptorSlot is the Δ bucket width the memory perceptor projects over.
func (c *Config) PerceptorSlot() time.Duration {
	return time.Duration(c.PerceptorSlotSeconds * float64(time.Second))
}
