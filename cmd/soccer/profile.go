package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagSetName string
	flagRooms   int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the stored profile",
	Long: `Display the stored player name and the most recently used rooms.

Examples:
  soccer profile
  soccer profile --set-name Ann
  soccer profile --rooms 20`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&flagSetName, "set-name", "", "Store a new player name")
	profileCmd.Flags().IntVar(&flagRooms, "rooms", 10, "Number of recent rooms to show")
}

func runProfile(cmd *cobra.Command, _ []string) error {
	store := openStore(nil)
	if store == nil {
		return errors.New("could not open profile database")
	}
	defer store.Close()

	if cmd.Flags().Changed("set-name") {
		if err := store.SaveName(flagSetName); err != nil {
			return err
		}
		fmt.Printf("Name set to %s\n", flagSetName)
		return nil
	}

	fmt.Printf("Name: %s\n", playerName(store))
	fmt.Println()

	rooms, err := store.RecentRooms(flagRooms)
	if err != nil {
		return fmt.Errorf("retrieving rooms: %w", err)
	}
	if len(rooms) == 0 {
		fmt.Println("No rooms used yet.")
		return nil
	}

	fmt.Printf("  %-10s  %-6s  %-30s  %s\n", "Room", "Role", "Relay", "Last used")
	fmt.Printf("  %-10s  %-6s  %-30s  %s\n", "----", "----", "-----", "---------")
	for _, r := range rooms {
		role := "guest"
		if r.Hosted {
			role = "host"
		}
		fmt.Printf("  %-10s  %-6s  %-30s  %s\n", r.RoomID, role, r.RelayURL, r.LastUsed.Format("2006-01-02 15:04"))
	}
	return nil
}
