// Package config loads service configuration from an optional YAML file
// overridden by SWAPCLASS_ environment variables
// (e.g. SWAPCLASS_STORAGE_POSTGRES_DSN maps to storage.postgres_dsn).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SWAPCLASS_"

type Config struct {
	Stream     StreamConfig     `koanf:"stream"`
	Storage    StorageConfig    `koanf:"storage"`
	Alerting   AlertingConfig   `koanf:"alerting"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Metrics    MetricsConfig    `koanf:"metrics"`
}

type StreamConfig struct {
	// Endpoint is the indexing API WebSocket URL.
	Endpoint string `koanf:"endpoint"`
	// Accounts restricts the subscription; empty means the full feed.
	Accounts []string `koanf:"accounts"`

	ReconnectDelay    time.Duration `koanf:"reconnect_delay"`
	MaxReconnectDelay time.Duration `koanf:"max_reconnect_delay"`
	PingInterval      time.Duration `koanf:"ping_interval"`
}

type StorageConfig struct {
	PostgresDSN string `koanf:"postgres_dsn"`
	// ClickhouseDSN is optional; empty disables the analytics log.
	ClickhouseDSN string `koanf:"clickhouse_dsn"`
}

type AlertingConfig struct {
	// Brokers is optional; empty disables publishing.
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

type ClassifierConfig struct {
	// Workers is the classification worker pool size.
	Workers int `koanf:"workers"`
	// MinValues overrides per-core-asset floors, keyed by symbol,
	// denominated in the asset's own units (e.g. SOL: "0.001").
	MinValues map[string]string `koanf:"min_values"`
}

type MetricsConfig struct {
	// Addr is the listen address of the /metrics endpoint; empty disables it.
	Addr string `koanf:"addr"`
}

// Load reads the config file (if present) and applies environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	// SWAPCLASS_STREAM_ENDPOINT -> stream.endpoint
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.Replace(s, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Stream: StreamConfig{
			ReconnectDelay:    1 * time.Second,
			MaxReconnectDelay: 30 * time.Second,
			PingInterval:      30 * time.Second,
		},
		Alerting: AlertingConfig{
			Topic: "swap-alerts",
		},
		Classifier: ClassifierConfig{
			Workers: 4,
		},
		Metrics: MetricsConfig{
			Addr: ":9102",
		},
	}
}
