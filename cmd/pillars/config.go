// ABOUTME: CLI commands for viewing and changing settings.
// ABOUTME: Covers the stored config row and the app config file.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/pillars/internal/config"
	"github.com/harperreed/pillars/internal/models"
	"github.com/spf13/cobra"
)

var (
	configTarget     int
	configAutoBackup bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `View and change settings.

Examples:
  pillars config                      # Show current settings
  pillars config --target 4           # Aim for 4 lifts per session
  pillars config --auto-backup        # Push to Charm after every change
  pillars config --auto-backup=false  # Turn auto-backup off`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("target") {
			if configTarget < 1 {
				return fmt.Errorf("target must be at least 1")
			}
			if _, err := repo.UpdateConfig(models.ConfigPatch{TargetPerSession: &configTarget}); err != nil {
				return fmt.Errorf("failed to update config: %w", err)
			}
			color.Green("✓ Target set to %d lifts per session", configTarget)
		}
		if cmd.Flags().Changed("auto-backup") {
			appConfig.AutoBackup = configAutoBackup
			if err := appConfig.Save(); err != nil {
				return fmt.Errorf("failed to save config file: %w", err)
			}
			if configAutoBackup {
				color.Green("✓ Auto-backup enabled")
			} else {
				color.Green("✓ Auto-backup disabled")
			}
		}
		if cmd.Flags().Changed("target") || cmd.Flags().Changed("auto-backup") {
			return nil
		}

		cfg, err := repo.GetConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		faint := color.New(color.Faint)
		fmt.Printf("Target per session: %d\n", cfg.TargetPerSession)
		fmt.Printf("Auto-backup:        %t\n", appConfig.AutoBackup)
		fmt.Printf("Device ID:          %s\n", cfg.DeviceID)
		fmt.Printf("Catalog version:    %d\n", cfg.DataVersion)
		if cfg.SeededAt != nil {
			fmt.Printf("Seeded:             %s\n", cfg.SeededAt.Format("2006-01-02 15:04"))
		}
		if cfg.LastExportAt != nil {
			fmt.Printf("Last export:        %s\n", cfg.LastExportAt.Format("2006-01-02 15:04"))
		}
		if cfg.LastSyncAt != nil {
			fmt.Printf("Last sync:          %s\n", cfg.LastSyncAt.Format("2006-01-02 15:04"))
		}
		fmt.Println(faint.Sprintf("Database: %s", appConfig.DBPath()))
		fmt.Println(faint.Sprintf("Config file: %s", config.GetConfigPath()))
		return nil
	},
}

func init() {
	configCmd.Flags().IntVar(&configTarget, "target", 0, "target number of lifts per session")
	configCmd.Flags().BoolVar(&configAutoBackup, "auto-backup", false, "push a cloud backup after every change")
	rootCmd.AddCommand(configCmd)
}
