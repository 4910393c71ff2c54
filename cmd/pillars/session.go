// ABOUTME: CLI commands for reviewing and editing sessions.
// ABOUTME: Supports list, show, edit, and delete subcommands.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/pillars/internal/models"
	"github.com/spf13/cobra"
)

var (
	sessionLimit     int
	sessionDate      string
	sessionNotes     string
	sessionDuration  int
	sessionCalories  int
	sessionUntracked bool
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Manage sessions",
	Long: `Review and edit logged training sessions.

Sessions are referenced by their full UUID or any unique prefix of it
(the 8-character prefix shown by list is usually enough).

COMMANDS:

  list     List recent sessions
  show     View one session in full
  edit     Change date, notes, duration, or untracked flag
  delete   Remove a session

Editing a session's date or untracked flag, or deleting it, recalculates
the statistics of every pillar it touched. The per-lift PR and warning
marks are snapshots from logging time and never change.`,
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := repo.ListSessions()
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}
		if sessionLimit > 0 && len(sessions) > sessionLimit {
			sessions = sessions[:sessionLimit]
		}

		faint := color.New(color.Faint)
		for _, s := range sessions {
			var lifts []string
			for _, e := range s.Entries {
				mark := ""
				if e.IsPR {
					mark = color.GreenString("★")
				}
				lifts = append(lifts, fmt.Sprintf("%s %.1f%s", e.Name, e.Weight, mark))
			}
			suffix := ""
			if s.Untracked {
				suffix = faint.Sprint(" [untracked]")
			}
			fmt.Printf("%s %s %s%s\n",
				faint.Sprint(s.ID.String()[:8]),
				faint.Sprint(s.Date.Format("2006-01-02 15:04")),
				strings.Join(lifts, ", "),
				suffix)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show session details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := repo.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(s.Date.Format("2006-01-02 15:04")), faint.Sprint(s.ID))
		if s.Untracked {
			color.Yellow("  untracked: excluded from PRs and workout totals")
		}
		for _, e := range s.Entries {
			mark := ""
			if e.IsPR {
				mark = color.GreenString(" ★ PR")
			} else if e.Warning {
				mark = color.YellowString(" ⚠ below floor")
			} else if !e.Counted {
				mark = faint.Sprint(" (not counted)")
			}
			fmt.Printf("  %s %.1f kg%s\n", e.Name, e.Weight, mark)
		}
		for _, a := range s.Accessories {
			check := faint.Sprint("✗")
			if a.Performed {
				check = color.GreenString("✓")
			}
			fmt.Printf("  %s %s\n", check, a.Name)
		}
		if s.DurationMinutes != nil {
			fmt.Printf("  Duration: %d min\n", *s.DurationMinutes)
		}
		if s.Calories != nil {
			fmt.Printf("  Calories: %d\n", *s.Calories)
		}
		if s.Notes != nil && *s.Notes != "" {
			fmt.Printf("  Notes: %s\n", *s.Notes)
		}
		return nil
	},
}

var sessionEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a session",
	Long: `Edit a session. Only the flags you pass are changed.

Examples:
  pillars session edit ab12 --date 2026-08-28
  pillars session edit ab12 --untracked          # Exclude from stats
  pillars session edit ab12 --notes "Deload week"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch models.SessionPatch
		if cmd.Flags().Changed("date") {
			t, err := parseTime(sessionDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s", sessionDate)
			}
			patch.Date = &t
		}
		if cmd.Flags().Changed("notes") {
			patch.Notes = &sessionNotes
		}
		if cmd.Flags().Changed("duration") {
			patch.DurationMin = &sessionDuration
		}
		if cmd.Flags().Changed("calories") {
			patch.Calories = &sessionCalories
		}
		if cmd.Flags().Changed("untracked") {
			patch.Untracked = &sessionUntracked
		}
		if patch == (models.SessionPatch{}) {
			return fmt.Errorf("nothing to change (pass at least one flag)")
		}

		updated, err := repo.UpdateSession(args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to edit session: %w", err)
		}

		color.Green("✓ Updated session %s", updated.ID.String()[:8])
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := repo.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if err := repo.DeleteSession(s.ID.String()); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		color.Green("✓ Deleted session %s", s.ID.String()[:8])
		fmt.Println("  Pillar statistics recalculated.")
		return nil
	},
}

func init() {
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "max number of results")

	sessionEditCmd.Flags().StringVar(&sessionDate, "date", "", "session date (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	sessionEditCmd.Flags().StringVar(&sessionNotes, "notes", "", "notes for the session")
	sessionEditCmd.Flags().IntVar(&sessionDuration, "duration", 0, "session duration in minutes")
	sessionEditCmd.Flags().IntVar(&sessionCalories, "calories", 0, "calories burned")
	sessionEditCmd.Flags().BoolVar(&sessionUntracked, "untracked", false, "exclude the session from PRs and workout totals")

	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionEditCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
