package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/tui-soccer/internal/protocol"
	"github.com/vovakirdan/tui-soccer/internal/session"
	"github.com/vovakirdan/tui-soccer/internal/sim"
)

//go:embed defaults/soccer.yaml
var defaultSoccerYAML []byte

// Default returns the hardcoded configuration. It matches the embedded
// soccer.yaml.
func Default() Config {
	return Config{
		Field: FieldConfig{
			Width:  sim.DefaultWidth,
			Height: sim.DefaultHeight,
		},
		Match: MatchConfig{
			PlayersPerTeam: sim.DefaultPlayersPerTeam,
			TickRate:       sim.DefaultTickRate,
			KickoffDelay:   sim.DefaultTickRate,
		},
		Network: NetworkConfig{
			JoinTimeout: session.DefaultJoinTimeout,
			Codec:       protocol.CodecJSON,
			InboxSize:   session.DefaultInboxSize,
			RelayAddr:   ":8080",
			RoomTTL:     5 * time.Minute,
		},
		Player: PlayerConfig{
			Name: session.DefaultName,
		},
		SSH: SSHConfig{
			Address:     ":2222",
			HostKeyPath: ".ssh/soccer_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Source: "default",
	}
}
