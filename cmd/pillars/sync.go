// ABOUTME: CLI commands for Charm-based cloud backup.
// ABOUTME: Supports push, pull, and status operations.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/pillars/internal/charm"
	"github.com/harperreed/pillars/internal/models"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Back up training data to Charm Cloud",
	Long: `Back up training data to Charm Cloud and restore it on other devices.

Each account holds one backup document: the full contents of the store.
Push replaces the remote copy wholesale; pull replaces the local store
wholesale. Last write wins - there is no merging.

Your data is E2E encrypted with your SSH key before upload. The server
never sees your unencrypted training data.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     charm link

  2. Push your data:
     pillars sync push

  3. On another device, pull it:
     pillars sync pull

COMMANDS:

  push      Upload the full local store as the account's backup
  pull      Replace the local store with the account's backup
  status    Show account and backup info

Enable auto_backup in the config file to push after every mutating
command automatically.`,
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload a full backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.NewClient()
		if err != nil {
			return fmt.Errorf("failed to connect to Charm: %w", err)
		}
		defer client.Close()

		if err := client.Push(repo); err != nil {
			return fmt.Errorf("push failed: %w", err)
		}

		now := time.Now()
		if _, err := repo.UpdateConfig(models.ConfigPatch{LastSyncAt: &now}); err != nil {
			return fmt.Errorf("failed to record sync time: %w", err)
		}

		color.Green("✓ Pushed backup to Charm Cloud")
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Restore from the cloud backup",
	Long: `Replace the local store with the account's cloud backup.

This is a destructive operation: all local pillars, accessories,
sessions, and config are overwritten in one transaction, and pillar
statistics are recalculated from the restored history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will REPLACE all local training data with the cloud backup.")
		fmt.Print("Continue? [y/N]: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Canceled.")
			return nil
		}

		client, err := charm.NewClient()
		if err != nil {
			return fmt.Errorf("failed to connect to Charm: %w", err)
		}
		defer client.Close()

		if err := client.Pull(repo); err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}

		now := time.Now()
		if _, err := repo.UpdateConfig(models.ConfigPatch{LastSyncAt: &now}); err != nil {
			return fmt.Errorf("failed to record sync time: %w", err)
		}

		color.Green("✓ Restored from Charm Cloud")
		fmt.Println("  Pillar statistics recalculated from the restored history.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.NewClient()
		if err != nil {
			color.Yellow("Not connected to Charm")
			fmt.Println("\nRun 'charm link' to connect an account.")
			return nil
		}
		defer client.Close()

		id, err := client.UserID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'charm link' to connect an account.")
			return nil
		}

		fmt.Println("Charm ID:", id)
		fmt.Println("Server: charm.2389.dev")
		if client.IsReadOnly() {
			color.Yellow("⚠ KV store locked by another process (read-only)")
		}
		fmt.Println()

		pillars, _ := repo.ActivePillars()
		count, _ := repo.CountSessions()
		cfg, _ := repo.GetConfig()

		color.Green("✓ Connected to Charm")
		fmt.Printf("  Pillars:  %d\n", len(pillars))
		fmt.Printf("  Sessions: %d\n", count)
		if cfg != nil && cfg.LastSyncAt != nil {
			fmt.Printf("  Last sync: %s\n", cfg.LastSyncAt.Format("2006-01-02 15:04"))
		}

		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}
