package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "OCR"

// Config is the service configuration.
type Config struct {
	Host            string           `mapstructure:"host" yaml:"host" json:"host"`
	Port            string           `mapstructure:"port" yaml:"port" json:"port"`
	Mode            string           `mapstructure:"mode" yaml:"mode" json:"mode"`
	LogLevel        string           `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat       string           `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	StagingDir      string           `mapstructure:"staging_dir" yaml:"staging_dir" json:"staging_dir"`
	MaxUploadBytes  int64            `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes" json:"max_upload_bytes"`
	Workers         int              `mapstructure:"workers" yaml:"workers" json:"workers"`
	ShutdownTimeout time.Duration    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	Rasterizer      RasterizerConfig `mapstructure:"rasterizer" yaml:"rasterizer" json:"rasterizer"`
	Recognizer      RecognizerConfig `mapstructure:"recognizer" yaml:"recognizer" json:"recognizer"`
}

// RasterizerConfig configures the pdftoppm invocation.
type RasterizerConfig struct {
	Binary  string        `mapstructure:"binary" yaml:"binary" json:"binary"`
	DPI     int           `mapstructure:"dpi" yaml:"dpi" json:"dpi"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// RecognizerConfig configures Tesseract.
type RecognizerConfig struct {
	Languages []string `mapstructure:"languages" yaml:"languages" json:"languages"`
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults, environment and config file.
func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	d := DefaultConfig()
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("mode", d.Mode)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("staging_dir", d.StagingDir)
	v.SetDefault("max_upload_bytes", d.MaxUploadBytes)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("shutdown_timeout", d.ShutdownTimeout)
	v.SetDefault("rasterizer.binary", d.Rasterizer.Binary)
	v.SetDefault("rasterizer.dpi", d.Rasterizer.DPI)
	v.SetDefault("rasterizer.timeout", d.Rasterizer.Timeout)
	v.SetDefault("recognizer.languages", d.Recognizer.Languages)

	// Environment variables with OCR_ prefix, nested keys use underscores
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PORT and MODE are honoured for container platforms that set them
	if err := v.BindEnv("port", EnvPrefix+"_PORT", "PORT"); err != nil {
		return fmt.Errorf("bind port env: %w", err)
	}
	if err := v.BindEnv("mode", EnvPrefix+"_MODE", "MODE"); err != nil {
		return fmt.Errorf("bind mode env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.ocr-api")
	}

	// Config file is optional unless given explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Mode = normalizeMode(cfg.Mode)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the config file in use, if any.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration. Invalid edits are
// ignored and the previous configuration stays active.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cm.reload()
	})
	cm.v.WatchConfig()
}

func (cm *Manager) reload() {
	cfg, err := cm.load()
	if err != nil {
		return
	}

	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}
