// Package staticgen provides a high-level API for publishing rendered pages
// as static files.
package staticgen

import (
	"github.com/user/staticgen/pkg/batch"
)

// Config represents the configuration of a Generator.
type Config struct {
	WebRoot    string // Directory files are published under (required)
	ServerName string // Host of synthetic requests (default: localhost, with a warning)

	Mode    batch.Mode // Batch failure handling (default: fail-fast)
	Workers int        // Parallel paths in collect-all mode (min: 1)
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a ConfigBuilder publishing under webRoot.
func NewConfigBuilder(webRoot string) *ConfigBuilder {
	return &ConfigBuilder{
		config: Config{
			WebRoot: webRoot,
			Mode:    batch.ModeFailFast,
			Workers: 1,
		},
	}
}

// Build returns the final Config, applying constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config
	if cfg.Mode == "" {
		cfg.Mode = batch.ModeFailFast
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg
}

// WithServerName sets the host of synthetic requests.
func (b *ConfigBuilder) WithServerName(name string) *ConfigBuilder {
	b.config.ServerName = name
	return b
}

// WithFailFast stops batches at the first failing path.
func (b *ConfigBuilder) WithFailFast() *ConfigBuilder {
	b.config.Mode = batch.ModeFailFast
	b.config.Workers = 1
	return b
}

// WithCollectAll attempts every path and reports failures together, running
// up to workers paths at once.
func (b *ConfigBuilder) WithCollectAll(workers int) *ConfigBuilder {
	b.config.Mode = batch.ModeCollectAll
	b.config.Workers = workers
	return b
}
