// Package config provides YAML/TOML configuration loading for the soccer
// client, relay and SSH server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tui-soccer/internal/entity"
	"github.com/vovakirdan/tui-soccer/internal/protocol"
	"github.com/vovakirdan/tui-soccer/internal/sim"
)

// Config is the full runtime configuration.
type Config struct {
	Field   FieldConfig   `yaml:"field" toml:"field"`
	Match   MatchConfig   `yaml:"match" toml:"match"`
	Network NetworkConfig `yaml:"network" toml:"network"`
	Player  PlayerConfig  `yaml:"player" toml:"player"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	SSH     SSHConfig     `yaml:"ssh" toml:"ssh"`
	Log     LogConfig     `yaml:"log" toml:"log"`

	// Source is the file the configuration was read from, or "embedded".
	Source string `yaml:"-" toml:"-"`
}

// FieldConfig defines the pitch size in field units.
type FieldConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// MatchConfig defines the match rules.
type MatchConfig struct {
	PlayersPerTeam int  `yaml:"players_per_team" toml:"players_per_team"`
	Fast           bool `yaml:"fast" toml:"fast"`
	DayMode        bool `yaml:"day_mode" toml:"day_mode"`
	TickRate       int  `yaml:"tick_rate" toml:"tick_rate"`
	KickoffDelay   int  `yaml:"kickoff_delay" toml:"kickoff_delay"` // ticks
}

// NetworkConfig defines the relay client and server.
type NetworkConfig struct {
	RelayURL    string        `yaml:"relay_url" toml:"relay_url"`
	JoinTimeout time.Duration `yaml:"join_timeout" toml:"join_timeout"`
	Codec       string        `yaml:"codec" toml:"codec"`
	InboxSize   int           `yaml:"inbox_size" toml:"inbox_size"`
	RelayAddr   string        `yaml:"relay_addr" toml:"relay_addr"` // listen address for `soccer relay`
	RoomTTL     time.Duration `yaml:"room_ttl" toml:"room_ttl"`
}

// PlayerConfig holds the local player's identity.
type PlayerConfig struct {
	Name string `yaml:"name" toml:"name"`
}

// StorageConfig locates the profile database.
type StorageConfig struct {
	DBPath string `yaml:"db_path" toml:"db_path"` // empty uses ~/.soccer/profile.db
}

// SSHConfig defines the Wish server.
type SSHConfig struct {
	Address     string        `yaml:"address" toml:"address"`
	HostKeyPath string        `yaml:"host_key_path" toml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout" toml:"idle_timeout"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// SimConfig converts the match settings into an engine configuration.
func (c Config) SimConfig(localID string) sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Width = c.Field.Width
	cfg.Height = c.Field.Height
	cfg.PlayersPerTeam = c.Match.PlayersPerTeam
	cfg.Mode = entity.ModeFor(c.Match.Fast)
	cfg.TickRate = c.Match.TickRate
	cfg.KickoffDelay = c.Match.KickoffDelay
	if localID != "" {
		cfg.LocalID = localID
	}
	return cfg
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		errs = append(errs, fmt.Errorf("field: dimensions must be positive, got %gx%g", c.Field.Width, c.Field.Height))
	}
	if c.Field.Height > 0 && c.Field.Height < 2*sim.GoalMouthHalf {
		errs = append(errs, fmt.Errorf("field: height %g is smaller than the goal mouth", c.Field.Height))
	}
	if p := c.Match.PlayersPerTeam; p < 1 || p > sim.MaxPlayersPerTeam {
		errs = append(errs, fmt.Errorf("match: players_per_team must be 1-%d, got %d", sim.MaxPlayersPerTeam, p))
	}
	if c.Match.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("match: tick_rate must be positive, got %d", c.Match.TickRate))
	}
	if c.Match.KickoffDelay < 0 {
		errs = append(errs, fmt.Errorf("match: kickoff_delay must not be negative, got %d", c.Match.KickoffDelay))
	}
	if _, err := protocol.CodecByName(c.Network.Codec); err != nil {
		errs = append(errs, fmt.Errorf("network: %w", err))
	}
	if c.Network.JoinTimeout <= 0 {
		errs = append(errs, fmt.Errorf("network: join_timeout must be positive, got %s", c.Network.JoinTimeout))
	}
	if c.Network.InboxSize <= 0 {
		errs = append(errs, fmt.Errorf("network: inbox_size must be positive, got %d", c.Network.InboxSize))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log: unknown level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}
