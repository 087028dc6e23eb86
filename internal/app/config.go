package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFeedPath      = "data/feed.txt"
	DefaultCheckFeedPath = "feed.txt"
	DefaultCustomPath    = "data/custom_entries.txt"
	DefaultOutputPath    = "output/all.m3u"
	DefaultGroup         = "All Channels"
	DefaultUserAgent     = "streamcheck/0.1"

	maxConcurrency = 500
)

// Config is every tunable of a run. Zero values are not defaults; start from
// DefaultConfig or LoadConfig.
type Config struct {
	FeedPath     string `yaml:"feed_path"`
	CustomPath   string `yaml:"custom_path"`
	OutputPath   string `yaml:"output_path"`
	ReportPath   string `yaml:"report_path"`
	DefaultGroup string `yaml:"default_group"`

	Concurrency         int           `yaml:"concurrency"`
	AdaptiveConcurrency bool          `yaml:"adaptive_concurrency"`
	ProbeTimeout        time.Duration `yaml:"probe_timeout"`
	FetchTimeout        time.Duration `yaml:"fetch_timeout"`
	RangeBytes          int64         `yaml:"range_bytes"`

	UserAgent   string `yaml:"user_agent"`
	Proxy       string `yaml:"proxy"`
	InsecureTLS bool   `yaml:"insecure_tls"`
	Rate        int    `yaml:"rate"`          // requests/second overall, 0 = unlimited
	PerHostRate int    `yaml:"per_host_rate"` // requests/second per host, 0 = unlimited

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func DefaultConfig() Config {
	return Config{
		FeedPath:     DefaultFeedPath,
		CustomPath:   DefaultCustomPath,
		OutputPath:   DefaultOutputPath,
		DefaultGroup: DefaultGroup,
		Concurrency:  10,
		ProbeTimeout: 10 * time.Second,
		FetchTimeout: 15 * time.Second,
		RangeBytes:   1024,
		UserAgent:    DefaultUserAgent,
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// LoadConfig reads a YAML file over the defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.FeedPath == "" {
		return fmt.Errorf("feed path is required")
	}
	if c.Concurrency < 1 || c.Concurrency > maxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d, got %d", maxConcurrency, c.Concurrency)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %s", c.ProbeTimeout)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.RangeBytes <= 0 {
		return fmt.Errorf("range bytes must be positive, got %d", c.RangeBytes)
	}
	if c.Rate < 0 || c.PerHostRate < 0 {
		return fmt.Errorf("rates must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.LogFormat)
	}
	if c.Proxy != "" {
		u, err := url.Parse(c.Proxy)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid proxy url %q", c.Proxy)
		}
	}
	return nil
}
