// ABOUTME: CLI command for deleting the local database.
// ABOUTME: Removes the SQLite file and its WAL sidecars after confirmation.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all local data",
	Long: `Delete the local database and start fresh.

This is a DESTRUCTIVE operation. All local pillars, sessions, and
settings are permanently deleted. Cloud backups are untouched; run
'pillars sync pull' afterward to restore from one.

The next command re-creates the database and re-seeds the canonical
pillar catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will PERMANENTLY DELETE all local training data.")
		fmt.Print("Type 'wipe' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "wipe" {
			fmt.Println("Canceled.")
			return nil
		}

		if err := repo.DeleteDatabase(); err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Local data deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wipeCmd)
}
