// ABOUTME: CLI commands for managing accessories.
// ABOUTME: Supports list and add subcommands.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/pillars/internal/models"
	"github.com/spf13/cobra"
)

var accessoryTags []string

var accessoryCmd = &cobra.Command{
	Use:     "accessory",
	Aliases: []string{"acc"},
	Short:   "Manage accessories",
	Long: `Manage accessory exercises - supporting movements recorded
alongside your lifts (face pulls, planks, lunges, ...).

The store ships with a small accessory catalog; add your own freely.
Accessories have no weights or statistics, just a performed flag per
session.`,
}

var accessoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List accessories",
	RunE: func(cmd *cobra.Command, args []string) error {
		accessories, err := repo.ListAccessories()
		if err != nil {
			return fmt.Errorf("failed to list accessories: %w", err)
		}
		if len(accessories) == 0 {
			fmt.Println("No accessories found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, a := range accessories {
			tags := ""
			if len(a.Tags) > 0 {
				tags = faint.Sprintf(" [%s]", strings.Join(a.Tags, ", "))
			}
			fmt.Printf("%s %s%s\n", faint.Sprint(padRight(a.ID, 24)), a.Name, tags)
		}
		return nil
	},
}

var accessoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an accessory",
	Long: `Add an accessory exercise.

Examples:
  pillars accessory add "Face Pull" --tags shoulders,posture
  pillars accessory add "Plank"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := models.NewAccessory(args[0], accessoryTags...)
		if err := repo.CreateAccessory(a); err != nil {
			return fmt.Errorf("failed to add accessory: %w", err)
		}
		color.Green("✓ Added %s", a.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(a.ID))
		return nil
	},
}

func init() {
	accessoryAddCmd.Flags().StringSliceVar(&accessoryTags, "tags", nil, "comma-separated tags")

	accessoryCmd.AddCommand(accessoryListCmd)
	accessoryCmd.AddCommand(accessoryAddCmd)
	rootCmd.AddCommand(accessoryCmd)
}
