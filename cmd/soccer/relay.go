package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-soccer/internal/protocol"
	"github.com/vovakirdan/tui-soccer/internal/transport/ws"
)

var flagRelayAddr string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the WebSocket relay",
	Long: `Run the relay that carries rooms between players. Every frame a peer
sends is forwarded to the other members of its room. Empty rooms are
dropped after network.room_ttl.

Endpoints:
  GET /rooms/{room}?peer=<id>[&host=1]  - WebSocket upgrade
  GET /schema.json                      - Wire message JSON Schema

Examples:
  soccer relay
  soccer relay --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&flagRelayAddr, "addr", "", "Listen address (default from network.relay_addr)")
}

func runRelay(cmd *cobra.Command, _ []string) error {
	logger := newLogger("soccer-relay")
	addr := cfg.Network.RelayAddr
	if cmd.Flags().Changed("addr") {
		addr = flagRelayAddr
	}

	rcfg := ws.DefaultRelayConfig()
	if cfg.Network.RoomTTL > 0 {
		rcfg.RoomTTL = cfg.Network.RoomTTL
	}
	rcfg.Logger = logger
	relay := ws.NewRelay(rcfg)
	defer relay.Close()

	schema, err := protocol.SchemaJSON()
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/rooms/", relay)
	mux.HandleFunc("GET /schema.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/schema+json")
		_, _ = w.Write(schema)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("relay listening", "addr", addr, "room_ttl", rcfg.RoomTTL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
