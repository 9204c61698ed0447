// Package config
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address         string
	UpstreamURL     string
	PollInterval    time.Duration
	RequestTimeout  time.Duration
	MaxAge          time.Duration
	MetricsFile     string
	EventsFile      string
	RefreshInterval time.Duration
	LogLevel        string
	LogFormat       string
}

// fileConfig is the optional YAML config file shape. Durations are
// strings in time.ParseDuration syntax.
type fileConfig struct {
	Address         string `yaml:"address"`
	UpstreamURL     string `yaml:"upstream_url"`
	PollInterval    string `yaml:"poll_interval"`
	RequestTimeout  string `yaml:"request_timeout"`
	MaxAge          string `yaml:"max_age"`
	MetricsFile     string `yaml:"metrics_file"`
	EventsFile      string `yaml:"events_file"`
	RefreshInterval string `yaml:"refresh_interval"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
}

// Load resolves configuration as defaults, then the CONFIG_FILE YAML
// file when present, then environment variables (a .env file is picked
// up first). defaultAddr differs per binary, everything else is shared.
func Load(defaultAddr string) *Config {
	godotenv.Load()

	cfg := &Config{
		Address:         defaultAddr,
		UpstreamURL:     "http://127.0.0.1:9000/latest",
		PollInterval:    15 * time.Second,
		RequestTimeout:  10 * time.Second,
		MaxAge:          30 * time.Second,
		MetricsFile:     "./out/metrics.json",
		EventsFile:      "./out/events.log",
		RefreshInterval: 15 * time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg.applyFile(path)
	}

	setString(&cfg.Address, "HTTP_ADDR")
	setString(&cfg.UpstreamURL, "UPSTREAM_URL")
	setDuration(&cfg.PollInterval, "POLL_INTERVAL")
	setDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
	setDuration(&cfg.MaxAge, "MAX_AGE")
	setString(&cfg.MetricsFile, "METRICS_FILE")
	setString(&cfg.EventsFile, "EVENTS_FILE")
	setDuration(&cfg.RefreshInterval, "REFRESH_INTERVAL")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	return cfg
}

func (c *Config) applyFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}

	applyString(&c.Address, fc.Address)
	applyString(&c.UpstreamURL, fc.UpstreamURL)
	applyDuration(&c.PollInterval, fc.PollInterval)
	applyDuration(&c.RequestTimeout, fc.RequestTimeout)
	applyDuration(&c.MaxAge, fc.MaxAge)
	applyString(&c.MetricsFile, fc.MetricsFile)
	applyString(&c.EventsFile, fc.EventsFile)
	applyDuration(&c.RefreshInterval, fc.RefreshInterval)
	applyString(&c.LogLevel, fc.LogLevel)
	applyString(&c.LogFormat, fc.LogFormat)
}

func setString(dst *string, key string) {
	applyString(dst, os.Getenv(key))
}

func setDuration(dst *time.Duration, key string) {
	applyDuration(dst, os.Getenv(key))
}

func applyString(dst *string, raw string) {
	if raw != "" {
		*dst = raw
	}
}

func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		*dst = parsed
	}
}
