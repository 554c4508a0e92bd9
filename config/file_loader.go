package config

import (
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabx/flowclient/errors"
	"github.com/kochabx/flowclient/validator"
)

// FileLoader loads configuration from file
type FileLoader struct {
	viper    *viper.Viper
	validate validator.Validator
	name     string
	paths    []string
}

// NewFileLoader creates a new file loader
func NewFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator) *FileLoader {
	// Determine config type from file extension
	extension := path.Ext(name)
	configType := strings.TrimPrefix(extension, ".")

	// Add configuration paths to viper
	for _, configPath := range paths {
		v.AddConfigPath(configPath)
	}

	v.SetConfigName(name)
	v.SetConfigType(configType)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &FileLoader{
		viper:    v,
		paths:    paths,
		name:     name,
		validate: validate,
	}
}

// Load implements Loader interface
func (l *FileLoader) Load(target any) error {
	// Apply default values BEFORE unmarshalling so that fields not present
	// in the config file keep their defaults
	if d, ok := target.(Defaulter); ok {
		d.SetDefaults()
	}

	if err := l.viper.ReadInConfig(); err != nil {
		return errors.NotFound("config file not found: %v", err)
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return errors.Internal("config parse error: %v", err)
	}

	// Validate configuration
	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return errors.BadRequest("config validation failed: %v", err)
		}
	}

	return nil
}

// Watch implements Loader interface
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if callback != nil {
			callback()
		}
	})

	l.viper.WatchConfig()
	return nil
}
