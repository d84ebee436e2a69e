package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/wordiz/internal/drill"
)

// EnvPrefix is prepended to every environment override, e.g. WORDIZ_DRILL_COUNT.
const EnvPrefix = "WORDIZ"

// Config holds all configuration for the application.
type Config struct {
	Drill DrillConfig `mapstructure:"drill"`
	Words WordsConfig `mapstructure:"words"`
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
}

// DrillConfig holds the defaults offered on the drill setup screen.
type DrillConfig struct {
	Kind      string        `mapstructure:"kind"`
	Count     int           `mapstructure:"count"`
	Seed      uint64        `mapstructure:"seed"` // 0 = seed from the clock
	TimeLimit time.Duration `mapstructure:"time_limit"`
}

// WordsConfig locates the vocabulary deck.
type WordsConfig struct {
	File string `mapstructure:"file"` // empty = built-in starter deck
}

// StoreConfig locates the training history database.
type StoreConfig struct {
	Path string `mapstructure:"path"` // empty = store.DefaultDBPath()
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from path (or the default location when path is
// empty) and from WORDIZ_* environment variables. A missing default config
// file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := drill.ParseKind(c.Drill.Kind); err != nil {
		return fmt.Errorf("drill.kind: %w", err)
	}
	if c.Drill.Count <= 0 {
		return fmt.Errorf("drill.count must be positive, got %d", c.Drill.Count)
	}
	if c.Drill.TimeLimit < 0 {
		return fmt.Errorf("drill.time_limit must not be negative, got %s", c.Drill.TimeLimit)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// DrillKind returns the configured default kind. Validate guarantees it parses.
func (c *Config) DrillKind() drill.Kind {
	k, _ := drill.ParseKind(c.Drill.Kind)
	return k
}

// DefaultDir returns $XDG_CONFIG_HOME/wordiz, falling back to ~/.config/wordiz.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "wordiz"), nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("drill.kind", string(drill.KindMultipleChoice))
	v.SetDefault("drill.count", 10)
	v.SetDefault("drill.seed", 0)
	v.SetDefault("drill.time_limit", drill.DefaultTimeLimit)

	v.SetDefault("words.file", "")
	v.SetDefault("store.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}
