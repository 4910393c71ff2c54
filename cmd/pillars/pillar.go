// ABOUTME: CLI commands for managing pillars.
// ABOUTME: Supports list, show, add, edit, archive, and restore subcommands.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/pillars/internal/models"
	"github.com/spf13/cobra"
)

var (
	pillarAll       bool
	pillarCategory  string
	pillarCadence   int
	pillarMin       float64
	pillarFloor     float64
	pillarNotes     string
	pillarName      string
	pillarSessLimit int
)

var pillarCmd = &cobra.Command{
	Use:     "pillar",
	Aliases: []string{"p"},
	Short:   "Manage pillars",
	Long: `Manage your pillars - the primary lifts you track.

The store ships with a canonical catalog (back squat, deadlift, bench
press, ...) that refreshes on upgrade without touching your thresholds
or history. You can add custom pillars alongside it.

COMMANDS:

  list      List pillars with PR and cadence status
  show      View one pillar with its session history
  add       Add a custom pillar
  edit      Change name, category, cadence, or thresholds
  archive   Hide a pillar without deleting its history
  restore   Bring an archived pillar back

CATEGORIES:

  squat, hinge, push, pull, carry, core

THRESHOLDS:

  --min    Qualifying minimum: sets below it are logged but don't count
  --floor  Regression floor: sets below it get a warning

Raising --min recalculates the pillar's PR and workout count from the
full session history.`,
}

var pillarListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List pillars",
	RunE: func(cmd *cobra.Command, args []string) error {
		var pillars []*models.Pillar
		var err error
		if pillarAll {
			pillars, err = repo.ListPillars()
		} else {
			pillars, err = repo.ActivePillars()
		}
		if err != nil {
			return fmt.Errorf("failed to list pillars: %w", err)
		}

		if len(pillars) == 0 {
			fmt.Println("No pillars found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, p := range pillars {
			pr := "-"
			if p.PRWeight > 0 {
				pr = fmt.Sprintf("%.1f kg", p.PRWeight)
			}
			status := dueStatus(p)
			archived := ""
			if !p.Active {
				archived = faint.Sprint(" [archived]")
			}
			fmt.Printf("%s %s %s PR %s  %s%s\n",
				faint.Sprint(padRight(p.ID, 24)),
				padRight(p.Name, 20),
				faint.Sprint(padRight(string(p.Category), 6)),
				padRight(pr, 9),
				status,
				archived)
		}
		return nil
	},
}

var pillarShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show pillar details and history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePillar(args[0])
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		bold.Printf("%s", p.Name)
		fmt.Printf(" %s\n", faint.Sprintf("(%s, %s)", p.ID, p.Category))
		fmt.Printf("  Cadence:   every %d days  %s\n", p.CadenceDays, dueStatus(p))
		fmt.Printf("  Minimum:   %.1f kg (floor %.1f kg)\n", p.MinWeight, p.FloorWeight)
		if p.PRWeight > 0 {
			fmt.Printf("  PR:        %.1f kg\n", p.PRWeight)
		}
		fmt.Printf("  Workouts:  %d\n", p.TotalWorkouts)
		if p.LastQualifiedAt != nil {
			fmt.Printf("  Qualified: %s\n", p.LastQualifiedAt.Format("2006-01-02"))
		}
		if p.LastLoggedAt != nil {
			fmt.Printf("  Logged:    %s\n", p.LastLoggedAt.Format("2006-01-02"))
		}
		if p.Notes != nil && *p.Notes != "" {
			fmt.Printf("  Notes:     %s\n", *p.Notes)
		}

		sessions, err := repo.SessionsForPillar(p.ID)
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		if len(sessions) == 0 {
			return nil
		}
		if pillarSessLimit > 0 && len(sessions) > pillarSessLimit {
			sessions = sessions[:pillarSessLimit]
		}

		fmt.Println("\nRecent sessions:")
		for _, s := range sessions {
			for _, e := range s.Entries {
				if e.PillarID != p.ID {
					continue
				}
				mark := ""
				if e.IsPR {
					mark = color.GreenString(" ★ PR")
				} else if e.Warning {
					mark = color.YellowString(" ⚠")
				} else if !e.Counted {
					mark = faint.Sprint(" (not counted)")
				}
				fmt.Printf("  %s %s %.1f kg%s\n",
					faint.Sprint(s.ID.String()[:8]),
					faint.Sprint(s.Date.Format("2006-01-02")),
					e.Weight, mark)
			}
		}
		return nil
	},
}

var pillarAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom pillar",
	Long: `Add a custom pillar.

Examples:
  pillars pillar add "Zercher Squat" --category squat --cadence 7 --min 60 --floor 50
  pillars pillar add "Landmine Press" -c push`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !models.IsValidCategory(pillarCategory) {
			return fmt.Errorf("unknown category: %s\nValid categories: %s", pillarCategory, categoryList())
		}

		p := models.NewPillar(name, models.Category(pillarCategory), pillarCadence)
		p.WithWeights(pillarMin, pillarFloor)
		if pillarNotes != "" {
			p.WithNotes(pillarNotes)
		}

		if err := repo.CreatePillar(p); err != nil {
			return fmt.Errorf("failed to add pillar: %w", err)
		}

		color.Green("✓ Added %s", name)
		fmt.Printf("  %s every %d days, min %.1f kg\n",
			color.New(color.Faint).Sprint(p.ID), p.CadenceDays, p.MinWeight)
		return nil
	},
}

var pillarEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a pillar",
	Long: `Edit a pillar. Only the flags you pass are changed.

Changing --min recalculates the pillar's PR and workout count from the
full session history. Past session entries keep the flags they were
logged with.

Examples:
  pillars pillar edit back_squat --min 110
  pillars pillar edit custom_zercher_squat --name "Zercher Squat" --cadence 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePillar(args[0])
		if err != nil {
			return err
		}

		var patch models.PillarPatch
		if cmd.Flags().Changed("name") {
			patch.Name = &pillarName
		}
		if cmd.Flags().Changed("category") {
			if !models.IsValidCategory(pillarCategory) {
				return fmt.Errorf("unknown category: %s\nValid categories: %s", pillarCategory, categoryList())
			}
			c := models.Category(pillarCategory)
			patch.Category = &c
		}
		if cmd.Flags().Changed("cadence") {
			patch.CadenceDays = &pillarCadence
		}
		if cmd.Flags().Changed("min") {
			patch.MinWeight = &pillarMin
		}
		if cmd.Flags().Changed("floor") {
			patch.FloorWeight = &pillarFloor
		}
		if cmd.Flags().Changed("notes") {
			patch.Notes = &pillarNotes
		}
		if patch == (models.PillarPatch{}) {
			return fmt.Errorf("nothing to change (pass at least one flag)")
		}

		updated, err := repo.UpdatePillar(p.ID, patch)
		if err != nil {
			return fmt.Errorf("failed to edit pillar: %w", err)
		}

		color.Green("✓ Updated %s", updated.Name)
		if patch.MinWeight != nil {
			fmt.Printf("  PR %.1f kg, %d workouts (recalculated)\n", updated.PRWeight, updated.TotalWorkouts)
		}
		return nil
	},
}

var pillarArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a pillar",
	Long: `Archive a pillar. It disappears from listings and session
building but keeps its history; restore it anytime.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePillar(args[0])
		if err != nil {
			return err
		}
		if err := repo.ArchivePillar(p.ID); err != nil {
			return fmt.Errorf("failed to archive pillar: %w", err)
		}
		color.Green("✓ Archived %s", p.Name)
		return nil
	},
}

var pillarRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore an archived pillar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePillar(args[0])
		if err != nil {
			return err
		}
		if err := repo.RestorePillar(p.ID); err != nil {
			return fmt.Errorf("failed to restore pillar: %w", err)
		}
		color.Green("✓ Restored %s", p.Name)
		return nil
	},
}

// dueStatus renders cadence progress against the last qualifying session.
func dueStatus(p *models.Pillar) string {
	if p.CadenceDays <= 0 {
		return ""
	}
	if p.LastQualifiedAt == nil {
		return color.YellowString("due")
	}
	elapsed := time.Since(*p.LastQualifiedAt)
	due := time.Duration(p.CadenceDays) * 24 * time.Hour
	if elapsed >= due {
		return color.YellowString("due")
	}
	days := int((due - elapsed).Hours() / 24)
	return color.New(color.Faint).Sprintf("due in %dd", days+1)
}

func categoryList() string {
	names := make([]string, len(models.AllCategories))
	for i, c := range models.AllCategories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	pillarListCmd.Flags().BoolVarP(&pillarAll, "all", "a", false, "include archived pillars")

	pillarShowCmd.Flags().IntVarP(&pillarSessLimit, "limit", "n", 10, "max sessions to show")

	pillarAddCmd.Flags().StringVarP(&pillarCategory, "category", "c", "", "movement category (required)")
	pillarAddCmd.Flags().IntVar(&pillarCadence, "cadence", 7, "target days between qualifying sessions")
	pillarAddCmd.Flags().Float64Var(&pillarMin, "min", 0, "qualifying minimum weight in kg")
	pillarAddCmd.Flags().Float64Var(&pillarFloor, "floor", 0, "regression floor weight in kg")
	pillarAddCmd.Flags().StringVar(&pillarNotes, "notes", "", "coaching notes")
	_ = pillarAddCmd.MarkFlagRequired("category")

	pillarEditCmd.Flags().StringVar(&pillarName, "name", "", "new display name")
	pillarEditCmd.Flags().StringVarP(&pillarCategory, "category", "c", "", "movement category")
	pillarEditCmd.Flags().IntVar(&pillarCadence, "cadence", 0, "target days between qualifying sessions")
	pillarEditCmd.Flags().Float64Var(&pillarMin, "min", 0, "qualifying minimum weight in kg")
	pillarEditCmd.Flags().Float64Var(&pillarFloor, "floor", 0, "regression floor weight in kg")
	pillarEditCmd.Flags().StringVar(&pillarNotes, "notes", "", "coaching notes")

	pillarCmd.AddCommand(pillarListCmd)
	pillarCmd.AddCommand(pillarShowCmd)
	pillarCmd.AddCommand(pillarAddCmd)
	pillarCmd.AddCommand(pillarEditCmd)
	pillarCmd.AddCommand(pillarArchiveCmd)
	pillarCmd.AddCommand(pillarRestoreCmd)
	rootCmd.AddCommand(pillarCmd)
}
