package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SOCCER_"

// Loader locates and layers configuration sources. The zero value uses
// the process environment and the real home and working directories.
type Loader struct {
	HomeDir   string // "" uses os.UserHomeDir
	WorkDir   string // "" uses the current directory
	EnvFile   string // "" uses .env in WorkDir
	LookupEnv func(string) (string, bool)
}

// Load reads configuration with the default Loader.
// Search order: customPath -> ~/.soccer/config.{yaml,toml} ->
// ./configs/soccer.{yaml,toml} -> embedded default. Environment
// variables and .env entries override whatever file was used.
func Load(customPath string) (Config, error) {
	return Loader{}.Load(customPath)
}

// Load reads, overrides and validates the configuration.
func (l Loader) Load(customPath string) (Config, error) {
	cfg, err := l.loadFile(customPath)
	if err != nil {
		return cfg, err
	}
	if err := l.applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", cfg.Source, err)
	}
	return cfg, nil
}

func (l Loader) loadFile(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := decode(customPath, data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		cfg.Source = customPath
		return cfg, nil
	}

	for _, path := range l.candidates() {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := decode(path, data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.Source = path
		return cfg, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultSoccerYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	cfg.Source = "embedded"
	return cfg, nil
}

// candidates lists the files searched when no explicit path is given.
func (l Loader) candidates() []string {
	var paths []string
	if home := l.homeDir(); home != "" {
		dir := filepath.Join(home, ".soccer")
		paths = append(paths, filepath.Join(dir, "config.yaml"), filepath.Join(dir, "config.toml"))
	}
	dir := filepath.Join(l.workDir(), "configs")
	paths = append(paths, filepath.Join(dir, "soccer.yaml"), filepath.Join(dir, "soccer.toml"))
	return paths
}

func (l Loader) homeDir() string {
	if l.HomeDir != "" {
		return l.HomeDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func (l Loader) workDir() string {
	if l.WorkDir != "" {
		return l.WorkDir
	}
	return "."
}

// UserDir returns ~/.soccer, where the profile database and host keys
// live by default.
func UserDir() string {
	return filepath.Join(Loader{}.homeDir(), ".soccer")
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// envVar binds one SOCCER_* variable to a setting.
type envVar struct {
	name  string
	apply func(*Config, string) error
}

var envVars = []envVar{
	{"NAME", func(c *Config, v string) error { c.Player.Name = v; return nil }},
	{"RELAY_URL", func(c *Config, v string) error { c.Network.RelayURL = v; return nil }},
	{"RELAY_ADDR", func(c *Config, v string) error { c.Network.RelayAddr = v; return nil }},
	{"CODEC", func(c *Config, v string) error { c.Network.Codec = strings.ToLower(v); return nil }},
	{"JOIN_TIMEOUT", durationVar(func(c *Config) *time.Duration { return &c.Network.JoinTimeout })},
	{"ROOM_TTL", durationVar(func(c *Config) *time.Duration { return &c.Network.RoomTTL })},
	{"PLAYERS", intVar(func(c *Config) *int { return &c.Match.PlayersPerTeam })},
	{"TICK_RATE", intVar(func(c *Config) *int { return &c.Match.TickRate })},
	{"FAST", boolVar(func(c *Config) *bool { return &c.Match.Fast })},
	{"DAY", boolVar(func(c *Config) *bool { return &c.Match.DayMode })},
	{"DB", func(c *Config, v string) error { c.Storage.DBPath = v; return nil }},
	{"SSH_ADDR", func(c *Config, v string) error { c.SSH.Address = v; return nil }},
	{"SSH_HOST_KEY", func(c *Config, v string) error { c.SSH.HostKeyPath = v; return nil }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = strings.ToLower(v); return nil }},
}

func intVar(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolVar(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func durationVar(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

// applyEnv layers .env entries and then real environment variables on
// top of cfg. The real environment wins.
func (l Loader) applyEnv(cfg *Config) error {
	envFile := l.EnvFile
	if envFile == "" {
		envFile = filepath.Join(l.workDir(), ".env")
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, ev := range envVars {
		key := EnvPrefix + ev.name
		v, ok := lookup(key)
		if !ok {
			v, ok = dotenv[key]
		}
		if !ok || v == "" {
			continue
		}
		if err := ev.apply(cfg, v); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", key, v, err)
		}
	}
	return nil
}
