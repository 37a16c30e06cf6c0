// Package config provides YAML configuration loading for the snake client
// and servers.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

// Config is the complete application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Watch   WatchConfig   `yaml:"watch"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// GameConfig controls interactive play.
type GameConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	DefaultMode  string        `yaml:"default_mode"`
	// PublishEvery sends the live state to spectators every N ticks.
	// Zero disables publishing.
	PublishEvery int `yaml:"publish_every"`
}

// WatchConfig controls the spectator view.
type WatchConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	InputChance     float64       `yaml:"input_chance"`
}

// APIConfig points the client at a remote leaderboard server.
type APIConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	TokenFile string        `yaml:"token_file"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives logs while a full-screen UI owns the terminal.
	File string `yaml:"file"`
}

// ServerConfig controls the HTTP and SSH servers.
type ServerConfig struct {
	HTTPAddr       string        `yaml:"http_addr"`
	SSHAddr        string        `yaml:"ssh_addr"`
	HostKey        string        `yaml:"host_key"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	SessionMaxIdle time.Duration `yaml:"session_max_idle"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			TickInterval: 150 * time.Millisecond,
			DefaultMode:  snake.ModeWrap.String(),
			PublishEvery: 2,
		},
		Watch: WatchConfig{
			TickInterval:    200 * time.Millisecond,
			RefreshInterval: 3 * time.Second,
			InputChance:     0.1,
		},
		API: APIConfig{
			Timeout:   5 * time.Second,
			TokenFile: "~/.snake/token",
		},
		Storage: StorageConfig{
			Path: "~/.snake/snake.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.snake/snake.log",
		},
		Server: ServerConfig{
			HTTPAddr:       ":8000",
			SSHAddr:        ":23234",
			HostKey:        "~/.snake/ssh_host_ed25519",
			IdleTimeout:    30 * time.Minute,
			SessionMaxIdle: time.Minute,
		},
	}
}

// Mode returns the configured default boundary mode.
func (c Config) Mode() snake.Mode {
	m, err := snake.ParseMode(c.Game.DefaultMode)
	if err != nil {
		return snake.ModeWrap
	}
	return m
}

// Remote reports whether a remote leaderboard server is configured.
func (c Config) Remote() bool {
	return c.API.URL != ""
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Game.TickInterval <= 0 {
		return fmt.Errorf("config: game.tick_interval must be positive, got %s", c.Game.TickInterval)
	}
	if _, err := snake.ParseMode(c.Game.DefaultMode); err != nil {
		return fmt.Errorf("config: game.default_mode: %w", err)
	}
	if c.Game.PublishEvery < 0 {
		return fmt.Errorf("config: game.publish_every must not be negative, got %d", c.Game.PublishEvery)
	}
	if c.Watch.TickInterval <= 0 {
		return fmt.Errorf("config: watch.tick_interval must be positive, got %s", c.Watch.TickInterval)
	}
	if c.Watch.RefreshInterval <= 0 {
		return fmt.Errorf("config: watch.refresh_interval must be positive, got %s", c.Watch.RefreshInterval)
	}
	if c.Watch.InputChance < 0 || c.Watch.InputChance > 1 {
		return fmt.Errorf("config: watch.input_chance must be within [0,1], got %g", c.Watch.InputChance)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("config: storage.path must be set")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Server.SessionMaxIdle <= 0 {
		return fmt.Errorf("config: server.session_max_idle must be positive, got %s", c.Server.SessionMaxIdle)
	}
	return nil
}
