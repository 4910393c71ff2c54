// ABOUTME: CLI command for logging a training session.
// ABOUTME: Accepts pillar/weight pairs and prints PR and regression feedback.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/pillars/internal/models"
	"github.com/harperreed/pillars/internal/storage"
	"github.com/spf13/cobra"
)

var (
	logAt        string
	logNotes     string
	logDuration  int
	logCalories  int
	logUntracked bool
)

var logCmd = &cobra.Command{
	Use:     "log <pillar> <weight> [<pillar> <weight> ...]",
	Aliases: []string{"l"},
	Short:   "Log a training session",
	Long: `Log a training session with one or more lifts.

Each lift is a pillar ID (or name) followed by the weight in kg. Weights
are rounded to the nearest 2.5 kg plate step before storing.

A set at or above the pillar's qualifying minimum counts toward PRs and
workout totals. A set below the regression floor prints a warning but is
still recorded.

Examples:
  pillars log back_squat 100
  pillars log deadlift 140 bench_press 80 --notes "Felt strong"
  pillars log back_squat 60 --untracked          # Warmup day, skip stats
  pillars log overhead_press 50 --at 2026-08-30`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args)%2 != 0 {
			return fmt.Errorf("arguments must be pillar/weight pairs")
		}

		s := models.NewSession()
		if logAt != "" {
			t, err := parseTime(logAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", logAt)
			}
			s.WithDate(t)
		}
		if logNotes != "" {
			s.WithNotes(logNotes)
		}
		if logDuration > 0 {
			s.WithDuration(logDuration)
		}
		if logCalories > 0 {
			s.Calories = &logCalories
		}
		s.Untracked = logUntracked

		for i := 0; i < len(args); i += 2 {
			p, err := resolvePillar(args[i])
			if err != nil {
				return err
			}
			weight, err := strconv.ParseFloat(args[i+1], 64)
			if err != nil {
				return fmt.Errorf("invalid weight: %s", args[i+1])
			}
			s.Entries = append(s.Entries, p.EvaluateEntry(models.RoundWeight(weight)))
		}

		if err := repo.AddSession(s); err != nil {
			return fmt.Errorf("failed to log session: %w", err)
		}

		color.Green("✓ Logged session")
		faint := color.New(color.Faint)
		fmt.Printf("  %s %s\n", faint.Sprint(s.ID.String()[:8]), faint.Sprint(s.Date.Format("2006-01-02 15:04")))
		for _, e := range s.Entries {
			line := fmt.Sprintf("  %s %.1f kg", e.Name, e.Weight)
			switch {
			case e.IsPR:
				color.Green("%s  ★ PR", line)
			case e.Warning:
				color.Yellow("%s  ⚠ below floor", line)
			case !e.Counted:
				fmt.Printf("%s  %s\n", line, faint.Sprint("(below minimum, not counted)"))
			default:
				fmt.Println(line)
			}
		}
		if s.Untracked {
			fmt.Println(faint.Sprint("  untracked: excluded from PRs and workout totals"))
		}

		return nil
	},
}

// resolvePillar looks up a pillar by exact ID, then by the slug of the
// given name, then by the custom-pillar slug.
func resolvePillar(arg string) (*models.Pillar, error) {
	for _, id := range []string{arg, models.Slugify(arg), models.CustomSlug(arg)} {
		p, err := repo.GetPillar(id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("unknown pillar: %s (try 'pillars pillar list')", arg)
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	logCmd.Flags().StringVar(&logAt, "at", "", "session date (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "notes for the session")
	logCmd.Flags().IntVar(&logDuration, "duration", 0, "session duration in minutes")
	logCmd.Flags().IntVar(&logCalories, "calories", 0, "calories burned")
	logCmd.Flags().BoolVar(&logUntracked, "untracked", false, "exclude the session from PRs and workout totals")
	rootCmd.AddCommand(logCmd)
}
