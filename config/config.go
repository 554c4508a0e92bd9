package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/flowclient/log"
	"github.com/kochabx/flowclient/validator"
)

// Config manages client configuration
type Config struct {
	mu       sync.RWMutex        // protects concurrent access to target
	viper    *viper.Viper        // viper instance for configuration management
	validate validator.Validator // validator for configuration validation
	target   any                 // target is the destination where the configuration will be unmarshalled
	loader   Loader              // loader is responsible for loading configuration
	watch    bool                // whether to automatically watch for configuration changes
}

// New creates a new Config instance with the given options
// If no loader is provided, a default FileLoader will be created with:
//   - filename: "flowclient.yaml"
//   - paths: ["."]
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
		watch:    true,
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	// Create default FileLoader if no loader is provided
	if c.loader == nil {
		c.loader = NewFileLoader("flowclient.yaml", []string{"."}, c.viper, c.validate)
	}

	return c
}

// Load reads the configuration using the configured loader
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Reload reloads the configuration from the loader
func (c *Config) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Watch sets up automatic configuration watching if enabled
func (c *Config) Watch() error {
	if !c.watch {
		return nil
	}

	return c.loader.Watch(func() {
		log.Info().Msg("config change detected")

		if err := c.Reload(); err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		log.Info().Msg("config reloaded successfully")
	})
}

// GetViper returns the underlying viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
