// ABOUTME: CLI commands for exporting and importing the store.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/pillars/internal/models"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export training data",
	Long: `Export training data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Training report (pillar standings + recent sessions)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --limit, -n    Max sessions in the markdown report

EXAMPLES:

  pillars export json                  # Export all data as JSON
  pillars export json -o backup.json   # Save to file
  pillars export markdown -n 30        # Report with last 30 sessions`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error
		switch format {
		case "json":
			data, err = repo.ExportJSON()
		case "yaml":
			data, err = repo.ExportYAML()
		case "markdown":
			var md string
			md, err = repo.ExportMarkdown(exportLimit)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		now := time.Now()
		if _, err := repo.UpdateConfig(models.ConfigPatch{LastExportAt: &now}); err != nil {
			return fmt.Errorf("failed to record export time: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import training data from JSON",
	Long: `Import training data from a JSON backup file.

This REPLACES all local pillars, accessories, sessions, and config with
the file's contents in one transaction, then recalculates every pillar's
statistics from the imported history. Malformed files are rejected
before anything is touched.

EXAMPLES:

  pillars import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := repo.ImportJSON(data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().IntVarP(&exportLimit, "limit", "n", 20, "max sessions in markdown report")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
