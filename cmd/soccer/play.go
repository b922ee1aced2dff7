package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-soccer/internal/platform/tui"
)

var flagOffline bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the lobby",
	Long: `Open the lobby to practice offline, host a room or join one.
Host and join need a relay (--relay or network.relay_url).

Controls:
  WASD/Arrows  - Move
  N            - Toggle day/night palette
  ?            - Help
  Esc          - Leave the match
  Q/Ctrl+C     - Quit

Examples:
  soccer play
  soccer play --offline --players 2 --fast`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		start := tui.StartLobby
		if flagOffline {
			start = tui.StartOffline
		}
		return runClient(start, "")
	},
}

func init() {
	playCmd.Flags().BoolVar(&flagOffline, "offline", false, "Skip the lobby and practice against the computer")
}

// runClient runs the interactive client starting at the given screen.
func runClient(start tui.StartMode, room string) error {
	logger, closeLog := fileLogger()
	defer closeLog()

	launcher, err := newLauncher(logger)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	return tui.Run(tui.AppOptions{
		Launcher: launcher,
		Store:    store,
		Name:     playerName(store),
		Room:     room,
		Start:    start,
		Width:    width,
		Height:   height,
	})
}
