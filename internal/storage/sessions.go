// ABOUTME: Session CRUD operations shared by the facade and transactions.
// ABOUTME: Every session write re-derives statistics for the pillars it touches.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/pillars/internal/models"
)

const sessionColumns = `id, date, entries, accessories, notes, duration_min, calories, untracked, created_at`

// AddSession inserts a session and recalculates statistics for every
// pillar referenced by its entries.
func (t *Tx) AddSession(s *models.Session) error {
	if err := insertSession(t.tx, s); err != nil {
		return err
	}
	return recalcPillars(t.tx, s.PillarIDs())
}

// UpdateSession applies a field-level merge to a session. If the patch
// touches the date, entries, or untracked flag, statistics are
// recalculated for every pillar in the old and new entry lists.
func (t *Tx) UpdateSession(idOrPrefix string, patch models.SessionPatch) (*models.Session, error) {
	id, err := resolveSessionID(t.tx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	old, err := getSession(t.tx, id)
	if err != nil {
		return nil, err
	}

	if err := updateSessionFields(t.tx, id, patch); err != nil {
		return nil, err
	}

	if patch.TouchesStats() {
		affected := old.PillarIDs()
		if patch.Entries != nil {
			for _, e := range *patch.Entries {
				affected = append(affected, e.PillarID)
			}
		}
		if err := recalcPillars(t.tx, affected); err != nil {
			return nil, err
		}
	}
	return getSession(t.tx, id)
}

// DeleteSession removes a session and recalculates statistics for the
// pillars it referenced, rolling PRs back to the next-highest remaining
// qualifying weight.
func (t *Tx) DeleteSession(idOrPrefix string) error {
	id, err := resolveSessionID(t.tx, idOrPrefix)
	if err != nil {
		return err
	}
	old, err := getSession(t.tx, id)
	if err != nil {
		return err
	}
	if _, err := t.tx.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return recalcPillars(t.tx, old.PillarIDs())
}

// GetSession retrieves a session by ID or unique ID prefix.
func (t *Tx) GetSession(idOrPrefix string) (*models.Session, error) {
	id, err := resolveSessionID(t.tx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return getSession(t.tx, id)
}

// ListSessions returns all sessions, most recent date first.
func (t *Tx) ListSessions() ([]*models.Session, error) {
	return listSessions(t.tx)
}

// SessionsForPillar returns the sessions containing an entry for the
// given pillar, most recent date first.
func (t *Tx) SessionsForPillar(pillarID string) ([]*models.Session, error) {
	return sessionsForPillar(t.tx, pillarID)
}

// sessionsForPillar filters the full history in memory; at single-user
// scale this beats maintaining a join table for JSON-encoded entries.
func sessionsForPillar(q dbtx, pillarID string) ([]*models.Session, error) {
	all, err := listSessions(q)
	if err != nil {
		return nil, err
	}
	var matched []*models.Session
	for _, s := range all {
		for _, e := range s.Entries {
			if e.PillarID == pillarID {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched, nil
}

// CountSessions returns the number of stored sessions.
func (t *Tx) CountSessions() (int, error) {
	var n int
	if err := t.tx.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// ClearSessions removes every session and zeroes derived statistics on
// all pillars.
func (t *Tx) ClearSessions() error {
	if _, err := t.tx.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return recalcAll(t.tx)
}

// BulkReplaceSessions clears the table, inserts the given rows, and
// re-derives statistics for every pillar from the new history.
func (t *Tx) BulkReplaceSessions(sessions []*models.Session) error {
	if _, err := t.tx.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	for _, s := range sessions {
		if err := insertSession(t.tx, s); err != nil {
			return err
		}
	}
	return recalcAll(t.tx)
}

func insertSession(q dbtx, s *models.Session) error {
	entries, err := json.Marshal(sanitizeEntries(s.Entries))
	if err != nil {
		return fmt.Errorf("encode session entries: %w", err)
	}
	accessories, err := json.Marshal(sanitizeAccessoryEntries(s.Accessories))
	if err != nil {
		return fmt.Errorf("encode session accessories: %w", err)
	}

	_, err = q.Exec(`
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID.String(), timeToMs(s.Date), string(entries), string(accessories),
		s.Notes, s.DurationMinutes, s.Calories, boolInt(s.Untracked), timeToMs(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return nil
}

func getSession(q dbtx, id string) (*models.Session, error) {
	row := q.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	s, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return s, nil
}

func listSessions(q dbtx) ([]*models.Session, error) {
	rows, err := q.Query("SELECT " + sessionColumns + " FROM sessions ORDER BY date DESC")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func updateSessionFields(q dbtx, id string, patch models.SessionPatch) error {
	var sets []string
	var args []any

	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Date != nil {
		add("date", timeToMs(*patch.Date))
	}
	if patch.Entries != nil {
		data, err := json.Marshal(sanitizeEntries(*patch.Entries))
		if err != nil {
			return fmt.Errorf("encode session entries: %w", err)
		}
		add("entries", string(data))
	}
	if patch.Accessories != nil {
		data, err := json.Marshal(sanitizeAccessoryEntries(*patch.Accessories))
		if err != nil {
			return fmt.Errorf("encode session accessories: %w", err)
		}
		add("accessories", string(data))
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.DurationMin != nil {
		add("duration_min", *patch.DurationMin)
	}
	if patch.Calories != nil {
		add("calories", *patch.Calories)
	}
	if patch.Untracked != nil {
		add("untracked", boolInt(*patch.Untracked))
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	if _, err := q.Exec("UPDATE sessions SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	return nil
}

// resolveSessionID finds the full ID from a prefix.
func resolveSessionID(q dbtx, idOrPrefix string) (string, error) {
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}

	rows, err := q.Query("SELECT id FROM sessions WHERE id LIKE ? || '%'", idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve session ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan session ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve session ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("session %s: %w", idOrPrefix, ErrNotFound)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple sessions", idOrPrefix)
	}
	return matches[0], nil
}

func scanSession(scan func(dest ...any) error) (*models.Session, error) {
	var s models.Session
	var idStr, entries, accessories string
	var notes sql.NullString
	var durationMin, calories sql.NullInt64
	var date, createdAt, untracked int64

	err := scan(&idStr, &date, &entries, &accessories, &notes, &durationMin,
		&calories, &untracked, &createdAt)
	if err != nil {
		return nil, err
	}

	s.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse session id %q: %w", idStr, err)
	}
	s.Date = msToTime(date)
	if err := json.Unmarshal([]byte(entries), &s.Entries); err != nil {
		return nil, fmt.Errorf("decode session entries: %w", err)
	}
	if err := json.Unmarshal([]byte(accessories), &s.Accessories); err != nil {
		return nil, fmt.Errorf("decode session accessories: %w", err)
	}
	s.Entries = sanitizeEntries(s.Entries)
	s.Accessories = sanitizeAccessoryEntries(s.Accessories)
	s.Notes = strPtr(notes)
	s.DurationMinutes = intPtr(durationMin)
	s.Calories = intPtr(calories)
	s.Untracked = untracked != 0
	s.CreatedAt = msToTime(createdAt)
	return &s, nil
}

// sanitizeEntries restores a nil entry list to an empty slice. Remote
// document stores drop empty lists entirely; local code never branches on
// absence.
func sanitizeEntries(entries []models.SessionEntry) []models.SessionEntry {
	if entries == nil {
		return []models.SessionEntry{}
	}
	return entries
}

func sanitizeAccessoryEntries(entries []models.AccessoryEntry) []models.AccessoryEntry {
	if entries == nil {
		return []models.AccessoryEntry{}
	}
	return entries
}
