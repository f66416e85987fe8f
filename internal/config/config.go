// Package config loads server configuration from an optional YAML file
// overlaid with REALMS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/spf13/viper"
)

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

// ServerConfig holds transport settings
type ServerConfig struct {
	WebSocketAddress string        `mapstructure:"websocket_address"`
	HealthAddress    string        `mapstructure:"health_address"`
	ActionTimeout    time.Duration `mapstructure:"action_timeout"`
	ViewerBuffer     int           `mapstructure:"viewer_buffer"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
}

// GameConfig holds table defaults. A zero seed picks a time-derived seed
// for every table.
type GameConfig struct {
	Setup      string `mapstructure:"setup"`
	Seed       uint64 `mapstructure:"seed"`
	MinPlayers int    `mapstructure:"min_players"`
	MaxPlayers int    `mapstructure:"max_players"`
}

// LoggingConfig selects the zap level and encoder
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReplayConfig controls replay recording
type ReplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket_address", ":8080")
	v.SetDefault("server.health_address", ":9090")
	v.SetDefault("server.action_timeout", 2*time.Minute)
	v.SetDefault("server.viewer_buffer", 64)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("game.setup", cards.SetupBase)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.min_players", 2)
	v.SetDefault("game.max_players", 4)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.directory", "replays")
}

// Load reads path if it exists, applies REALMS_* overrides and validates the
// result. An empty path uses defaults and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("REALMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and names
func (c *Config) Validate() error {
	if c.Server.WebSocketAddress == "" {
		return fmt.Errorf("server.websocket_address is required")
	}
	if c.Server.ActionTimeout <= 0 {
		return fmt.Errorf("server.action_timeout must be positive, got %s", c.Server.ActionTimeout)
	}
	if c.Server.ViewerBuffer <= 0 {
		return fmt.Errorf("server.viewer_buffer must be positive, got %d", c.Server.ViewerBuffer)
	}
	if _, err := cards.SetupByName(c.Game.Setup); err != nil {
		return fmt.Errorf("game.setup: %w", err)
	}
	if c.Game.MinPlayers < 2 || c.Game.MaxPlayers < c.Game.MinPlayers {
		return fmt.Errorf("game players must satisfy 2 <= min <= max, got %d..%d", c.Game.MinPlayers, c.Game.MaxPlayers)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not json or console", c.Logging.Format)
	}
	if c.Replay.Enabled && c.Replay.Directory == "" {
		return fmt.Errorf("replay.directory is required when replays are enabled")
	}
	return nil
}
