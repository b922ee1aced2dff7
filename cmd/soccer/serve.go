package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-soccer/internal/platform/tui"
)

var (
	flagSSHAddr string
	flagHostKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the soccer SSH server",
	Long: `Start an SSH server that lets users connect and play in the terminal.

Each SSH connection gets its own lobby, named after the SSH user. Rooms
hosted over SSH go through the relay when one is configured; otherwise
they are shared in-process between the server's SSH sessions.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses ssh.host_key_path, generating it if missing

Examples:
  soccer serve
  soccer serve --ssh :2222
  soccer serve --relay http://localhost:8080

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from ssh.address)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("ssh") {
		cfg.SSH.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.SSH.HostKeyPath = flagHostKey
	}

	logger := newLogger("soccer-ssh")
	conn, err := newConnector(logger)
	if err != nil {
		return err
	}

	server, err := tui.NewSSHServer(cfg, conn, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Starting soccer SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe()
}
