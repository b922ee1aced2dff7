package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-soccer/internal/entity"
	"github.com/vovakirdan/tui-soccer/internal/match"
	"github.com/vovakirdan/tui-soccer/internal/platform/tui"
)

var flagHeadless bool

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Host a room",
	Long: `Create a room on the relay and start the match as its authority.
Share the printed room id with the players who should join.

With --headless no UI is shown: the local agent stands still and the
process only keeps score and snapshots flowing until interrupted.

Examples:
  soccer host --relay http://localhost:8080
  soccer host --headless --relay http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if flagHeadless {
			return runHeadless()
		}
		return runClient(tui.StartHost, "")
	},
}

func init() {
	hostCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run the authority without a UI")
}

func runHeadless() error {
	logger := newLogger("soccer-host")
	launcher, err := newLauncher(logger)
	if err != nil {
		return err
	}
	if launcher.Connector == nil {
		return errors.New("headless host needs a relay (--relay)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := launcher.Host(ctx, cfg.Player.Name)
	if err != nil {
		return err
	}
	sess := m.Session()
	defer sess.Disconnect()

	fmt.Printf("Hosting room %s\n", sess.RoomID())
	fmt.Println("Press Ctrl+C to stop")

	m.OnScore(func(e match.ScoreEvent) {
		logger.Info("goal", "team", string(e.Team), "score", fmt.Sprintf("%d:%d", e.Score.Team1, e.Score.Team2))
	})
	sess.OnJoin(func(d entity.Descriptor) {
		if d.ID != sess.LocalID() {
			logger.Info("player joined", "name", d.Name, "peers", sess.PeerCount())
		}
	})
	sess.OnLeave(func(id string) {
		logger.Info("player left", "id", id, "peers", sess.PeerCount())
	})

	err = match.NewRunner(m, cfg.Match.TickRate).Run(ctx, nil)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down", "score", fmt.Sprintf("%d:%d", m.Score().Team1, m.Score().Team2))
		return nil
	}
	return err
}
