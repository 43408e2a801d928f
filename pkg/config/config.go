// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/staticgen/pkg/adapters/handlerfetcher"
	"github.com/user/staticgen/pkg/batch"
	"github.com/user/staticgen/pkg/ports"
	"github.com/user/staticgen/pkg/publisher"
)

// Fetcher names.
const (
	FetcherHTTP   = "http"
	FetcherChrome = "chrome"
)

// Config represents the full configuration for staticgen.
type Config struct {
	WebRoot    string `yaml:"web_root"`
	ServerName string `yaml:"server_name"`

	// Rendering
	Fetcher   string            `yaml:"fetcher"`
	BaseURL   string            `yaml:"base_url"`
	TimeoutMs int               `yaml:"timeout_ms"`
	Headers   map[string]string `yaml:"headers"`
	Chrome    ChromeConfig      `yaml:"chrome"`

	Batch BatchConfig `yaml:"batch"`

	// Output
	LogLevel    string `yaml:"log_level"`
	MetricsFile string `yaml:"metrics_file"`
	SummaryFile string `yaml:"summary_file"`
}

// BatchConfig represents batch driver settings.
type BatchConfig struct {
	Mode    string `yaml:"mode"`
	Workers int    `yaml:"workers"`
}

// ChromeConfig represents browser settings for the chrome fetcher.
type ChromeConfig struct {
	Path              string `yaml:"path"`
	Headless          bool   `yaml:"headless"`
	IgnoreHTTPSErrors bool   `yaml:"ignore_https_errors"`
	ProxyServer       string `yaml:"proxy_server"`
	UserAgent         string `yaml:"user_agent"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Fetcher:   FetcherHTTP,
		BaseURL:   "http://127.0.0.1:8000",
		TimeoutMs: 30000,
		Chrome: ChromeConfig{
			Headless: true,
		},
		Batch: BatchConfig{
			Mode:    string(batch.ModeFailFast),
			Workers: 1,
		},
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks c and makes the web root absolute.
func (c *Config) Validate() error {
	if c.WebRoot == "" {
		return &publisher.Error{Kind: publisher.KindConfiguration, Err: publisher.ErrNoWebRoot}
	}
	abs, err := filepath.Abs(c.WebRoot)
	if err != nil {
		return fmt.Errorf("resolve web root: %w", err)
	}
	c.WebRoot = abs

	switch c.Fetcher {
	case FetcherHTTP, FetcherChrome:
	default:
		return fmt.Errorf("unknown fetcher %q (want %s or %s)", c.Fetcher, FetcherHTTP, FetcherChrome)
	}
	if _, err := batch.ParseMode(c.Batch.Mode); err != nil {
		return err
	}
	if c.Batch.Workers < 1 {
		c.Batch.Workers = 1
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must not be negative")
	}
	return nil
}

// ResolveServerName returns the configured server name, or
// handlerfetcher.DefaultServerName and true when none is set.
func (c Config) ResolveServerName() (string, bool) {
	if c.ServerName != "" {
		return c.ServerName, false
	}
	return handlerfetcher.DefaultServerName, true
}

// Timeout returns the render timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ToBatchConfig converts the batch section to batch.Config. Call Validate
// first.
func (c Config) ToBatchConfig() batch.Config {
	mode, _ := batch.ParseMode(c.Batch.Mode)
	return batch.Config{Mode: mode, Workers: c.Batch.Workers}
}

// ToBrowserOptions converts the chrome section to ports.BrowserOptions.
func (c Config) ToBrowserOptions() ports.BrowserOptions {
	return ports.BrowserOptions{
		Headless:          c.Chrome.Headless,
		ChromePath:        c.Chrome.Path,
		UserAgent:         c.Chrome.UserAgent,
		Headers:           c.Headers,
		IgnoreHTTPSErrors: c.Chrome.IgnoreHTTPSErrors,
		ProxyServer:       c.Chrome.ProxyServer,
		Incognito:         true,
		RenderTimeout:     c.Timeout(),
	}
}
