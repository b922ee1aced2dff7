// soccer is a terminal soccer game with online rooms.
//
// Usage:
//
//	soccer play              - Open the lobby (or practice offline with --offline)
//	soccer host              - Host a room and print its id
//	soccer join <room>       - Join a room hosted elsewhere
//	soccer relay             - Run the WebSocket relay that carries rooms
//	soccer serve             - Start the SSH server for remote play
//	soccer profile           - Show or change the stored profile
//	soccer schema            - Print the JSON Schema of the wire messages
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.soccer/config.yaml)
//	--log-level <lvl>   - debug, info, warn or error
//	--name <name>       - Player name
//	--relay <url>       - Relay base URL
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-soccer/internal/config"
	"github.com/vovakirdan/tui-soccer/internal/match"
	"github.com/vovakirdan/tui-soccer/internal/session"
	"github.com/vovakirdan/tui-soccer/internal/storage"
	"github.com/vovakirdan/tui-soccer/internal/transport/ws"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagName     string
	flagRelay    string
	flagCodec    string
	flagPlayers  int
	flagFast     bool
	flagDay      bool

	// cfg is loaded once before any subcommand runs.
	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "soccer",
	Short: "TUI Soccer - two-team soccer in your terminal",
	Long: `TUI Soccer is a top-down soccer match played in the terminal, alone
against the computer or with friends through a relay.

Available commands:
  play     - Lobby or offline practice
  host     - Host a room
  join     - Join a room by id
  relay    - Run the WebSocket relay
  serve    - Start SSH server for remote play
  profile  - Stored name and recent rooms
  schema   - Wire message JSON Schema

Examples:
  soccer play --offline --players 3
  soccer relay --addr :8080
  soccer host --relay http://localhost:8080
  soccer join 1a2b3c4d --relay http://localhost:8080`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to config file (YAML or TOML)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagName, "name", "", "Player name")
	pf.StringVar(&flagRelay, "relay", "", "Relay base URL, e.g. http://localhost:8080")
	pf.StringVar(&flagCodec, "codec", "", "Wire codec: json or msgpack")
	pf.IntVar(&flagPlayers, "players", 0, "Players per team (1-3)")
	pf.BoolVar(&flagFast, "fast", false, "Fast mode")
	pf.BoolVar(&flagDay, "day", false, "Day palette")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(relayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(schemaCmd)
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loaded.Log.Level = flagLogLevel
	}
	if flags.Changed("name") {
		loaded.Player.Name = flagName
	}
	if flags.Changed("relay") {
		loaded.Network.RelayURL = flagRelay
	}
	if flags.Changed("codec") {
		loaded.Network.Codec = flagCodec
	}
	if flags.Changed("players") {
		loaded.Match.PlayersPerTeam = flagPlayers
	}
	if flags.Changed("fast") {
		loaded.Match.Fast = flagFast
	}
	if flags.Changed("day") {
		loaded.Match.DayMode = flagDay
	}

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config (%s): %w", loaded.Source, err)
	}
	cfg = loaded
	return nil
}

// newLogger builds a stderr logger at the configured level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// fileLogger logs to ~/.soccer/soccer.log so the alternate screen stays
// clean. The returned func closes the file.
func fileLogger() (*log.Logger, func()) {
	dir := config.UserDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "soccer.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, func() {}
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "soccer"})
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, func() { f.Close() }
}

// newConnector returns the relay connector, or nil when no relay is set.
func newConnector(logger *log.Logger) (session.Connector, error) {
	if cfg.Network.RelayURL == "" {
		return nil, nil
	}
	c, err := ws.NewConnector(cfg.Network.RelayURL, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// newLauncher wires the config, relay connector and logger together.
func newLauncher(logger *log.Logger) (match.Launcher, error) {
	conn, err := newConnector(logger)
	if err != nil {
		return match.Launcher{}, err
	}
	return match.Launcher{Config: cfg, Connector: conn, Logger: logger}, nil
}

// openStore opens the profile database. Failures are logged and play
// continues without a profile.
func openStore(logger *log.Logger) *storage.Store {
	path := cfg.Storage.DBPath
	if path == "" {
		path = storage.DefaultPath(config.UserDir())
	}
	store, err := storage.Open(path)
	if err != nil {
		if logger != nil {
			logger.Warn("could not open profile database", "path", path, "err", err)
		}
		return nil
	}
	return store
}

// playerName prefers the configured name, then the stored one.
func playerName(store *storage.Store) string {
	if flagName != "" || store == nil {
		return cfg.Player.Name
	}
	if stored, err := store.Name(); err == nil && stored != "" {
		return stored
	}
	return cfg.Player.Name
}
