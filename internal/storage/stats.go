// ABOUTME: Derived-statistics recalculation for pillars.
// ABOUTME: Full-history scan re-evaluated against the current qualifying threshold.
package storage

import (
	"errors"
	"fmt"
	"time"
)

// RecalcPillar re-derives a pillar's aggregate fields from the full
// session history. It runs inside the enclosing transaction.
func (t *Tx) RecalcPillar(pillarID string) error {
	return recalcPillar(t.tx, pillarID)
}

// recalcPillar recomputes pr_weight, last_logged_at, last_qualified_at,
// and total_workouts for one pillar.
//
// Qualification is re-evaluated against the pillar's current minimum
// weight on every call, not against the stored entry flags: raising the
// threshold retroactively un-counts historical sessions, and deleting
// the session holding the PR rolls it back to the next-highest remaining
// qualifying weight. Stored entry flags are logging-time history and are
// left untouched. Untracked sessions never qualify but still move the
// last-logged timestamp, since "logged" is weaker than "qualified".
func recalcPillar(q dbtx, pillarID string) error {
	p, err := getPillar(q, pillarID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// A session may reference a pillar that was wiped; there is
			// nothing to derive.
			return nil
		}
		return err
	}

	sessions, err := listSessions(q)
	if err != nil {
		return err
	}

	var (
		prWeight      float64
		lastLogged    *time.Time
		lastQualified *time.Time
		totalWorkouts int
	)

	for _, s := range sessions {
		logged := false
		qualified := false
		for _, e := range s.Entries {
			if e.PillarID != pillarID {
				continue
			}
			logged = true
			if s.Untracked || e.Weight < p.MinWeight {
				continue
			}
			qualified = true
			if e.Weight > prWeight {
				prWeight = e.Weight
			}
		}

		date := s.Date
		if logged && (lastLogged == nil || date.After(*lastLogged)) {
			lastLogged = &date
		}
		if qualified {
			// A session counts once no matter how many entries qualify.
			totalWorkouts++
			if lastQualified == nil || date.After(*lastQualified) {
				lastQualified = &date
			}
		}
	}

	_, err = q.Exec(`
		UPDATE pillars
		SET pr_weight = ?, last_logged_at = ?, last_qualified_at = ?, total_workouts = ?
		WHERE id = ?
	`, prWeight, nullableMs(lastLogged), nullableMs(lastQualified), totalWorkouts, pillarID)
	if err != nil {
		return fmt.Errorf("write pillar stats %s: %w", pillarID, err)
	}
	return nil
}

// recalcPillars recalculates each distinct pillar in ids.
func recalcPillars(q dbtx, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := recalcPillar(q, id); err != nil {
			return err
		}
	}
	return nil
}

// recalcAll recalculates every stored pillar.
func recalcAll(q dbtx) error {
	pillars, err := listPillars(q, false)
	if err != nil {
		return err
	}
	for _, p := range pillars {
		if err := recalcPillar(q, p.ID); err != nil {
			return err
		}
	}
	return nil
}
