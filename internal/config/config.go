package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Backends.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// EnvConfig points at an explicit config file.
const EnvConfig = "TADA_CONFIG"

// Config holds application configuration.
type Config struct {
	Backend string      `mapstructure:"backend"`
	API     APIConfig   `mapstructure:"api"`
	Local   LocalConfig `mapstructure:"local"`
	UI      UIConfig    `mapstructure:"ui"`
	Log     LogConfig   `mapstructure:"log"`
}

// APIConfig holds remote service settings.
type APIConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"`
	Rate     float64       `mapstructure:"rate"`
	Burst    int           `mapstructure:"burst"`
	OwnerID  int           `mapstructure:"owner_id"`
}

// LocalConfig holds offline store settings.
type LocalConfig struct {
	Dir string `mapstructure:"dir"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	Color        string `mapstructure:"color"`
	DragDeadZone int    `mapstructure:"drag_dead_zone"`
}

// LogConfig holds logging settings. An empty File sends interactive
// sessions to the default state file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendRemote)
	v.SetDefault("api.base_url", "https://dummyjson.com")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.page_size", 30)
	v.SetDefault("api.rate", 5.0)
	v.SetDefault("api.burst", 10)
	v.SetDefault("api.owner_id", 1)
	v.SetDefault("local.dir", filepath.Join(homeDir(), ".tada"))
	v.SetDefault("ui.theme", "classic")
	v.SetDefault("ui.color", "auto")
	v.SetDefault("ui.drag_dead_zone", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Path resolves the config file: explicit, then TADA_CONFIG, then
// ~/.config/tada/config.toml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "tada", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix
// TADA_, so api.base_url is TADA_API_BASE_URL; log.level also reads
// LOG_LEVEL. A missing file is not an error. Load does not validate: callers
// apply their own overrides first, then call Validate.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path(path))

	v.SetEnvPrefix("TADA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("log.level", "TADA_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendRemote, BackendLocal:
	default:
		return fmt.Errorf("config: backend must be %q or %q, got %q", BackendRemote, BackendLocal, c.Backend)
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("config: api.page_size must be positive, got %d", c.API.PageSize)
	}
	if c.API.OwnerID <= 0 {
		return fmt.Errorf("config: api.owner_id must be positive, got %d", c.API.OwnerID)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: ui.color must be auto, always or never, got %q", c.UI.Color)
	}
	if c.UI.DragDeadZone < 0 {
		return fmt.Errorf("config: ui.drag_dead_zone must not be negative, got %d", c.UI.DragDeadZone)
	}
	return nil
}

// Save writes cfg to path (resolved like Load), creating the directory.
func Save(path string, cfg Config) error {
	path = Path(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("backend", cfg.Backend)
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.page_size", cfg.API.PageSize)
	v.Set("api.rate", cfg.API.Rate)
	v.Set("api.burst", cfg.API.Burst)
	v.Set("api.owner_id", cfg.API.OwnerID)
	v.Set("local.dir", cfg.Local.Dir)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.color", cfg.UI.Color)
	v.Set("ui.drag_dead_zone", cfg.UI.DragDeadZone)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
