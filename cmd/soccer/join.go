package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-soccer/internal/platform/tui"
)

var joinCmd = &cobra.Command{
	Use:   "join <room>",
	Short: "Join a room by id",
	Long: `Join a room hosted by another player through the relay. The match
starts as soon as the relay admits you; on failure the lobby shows why.

Examples:
  soccer join 1a2b3c4d --relay http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runClient(tui.StartJoin, args[0])
	},
}
