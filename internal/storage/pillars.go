// ABOUTME: Pillar CRUD operations shared by the facade and transactions.
// ABOUTME: Partial updates merge at field level; replace overwrites whole rows.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/pillars/internal/models"
)

// ErrNotFound marks lookups that matched no record.
var ErrNotFound = errors.New("not found")

const pillarColumns = `id, name, category, cadence_days, min_weight, floor_weight,
	pr_weight, last_logged_at, last_qualified_at, total_workouts,
	active, notes, accessory_ids, track_overload, overload_threshold, created_at`

// ListPillars returns every pillar, archived included, ordered by name.
func (t *Tx) ListPillars() ([]*models.Pillar, error) {
	return listPillars(t.tx, false)
}

// ActivePillars returns non-archived pillars ordered by name.
func (t *Tx) ActivePillars() ([]*models.Pillar, error) {
	return listPillars(t.tx, true)
}

// GetPillar retrieves a pillar by ID.
func (t *Tx) GetPillar(id string) (*models.Pillar, error) {
	return getPillar(t.tx, id)
}

// CreatePillar inserts a new pillar, rejecting duplicate IDs or names
// before any write happens.
func (t *Tx) CreatePillar(p *models.Pillar) error {
	var count int
	err := t.tx.QueryRow(
		"SELECT COUNT(*) FROM pillars WHERE id = ? OR LOWER(name) = LOWER(?)",
		p.ID, p.Name,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check duplicate pillar: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("pillar already exists: %s", p.Name)
	}
	return insertPillar(t.tx, p)
}

// UpdatePillar applies a field-level merge to a pillar. Fields left nil in
// the patch are untouched, so concurrent patches to disjoint fields all
// persist. A minimum-weight change re-derives the pillar's statistics
// against the full session history before returning.
func (t *Tx) UpdatePillar(id string, patch models.PillarPatch) (*models.Pillar, error) {
	minChanged, err := updatePillarFields(t.tx, id, patch)
	if err != nil {
		return nil, err
	}
	if minChanged {
		if err := recalcPillar(t.tx, id); err != nil {
			return nil, err
		}
	}
	return getPillar(t.tx, id)
}

// ReplacePillar overwrites a whole pillar row. If the replacement moves
// the qualifying threshold, derived statistics are recomputed.
func (t *Tx) ReplacePillar(p *models.Pillar) error {
	old, err := getPillar(t.tx, p.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := replacePillar(t.tx, p); err != nil {
		return err
	}
	if old != nil && old.MinWeight != p.MinWeight {
		return recalcPillar(t.tx, p.ID)
	}
	return nil
}

// ArchivePillar soft-deletes a pillar. History is kept.
func (t *Tx) ArchivePillar(id string) error {
	return setPillarActive(t.tx, id, false)
}

// RestorePillar reverses an archive.
func (t *Tx) RestorePillar(id string) error {
	return setPillarActive(t.tx, id, true)
}

// ClearPillars removes every pillar row.
func (t *Tx) ClearPillars() error {
	if _, err := t.tx.Exec("DELETE FROM pillars"); err != nil {
		return fmt.Errorf("clear pillars: %w", err)
	}
	return nil
}

// BulkReplacePillars clears the table and inserts the given rows as-is,
// derived fields included. Used by import and sync pull.
func (t *Tx) BulkReplacePillars(pillars []*models.Pillar) error {
	if err := t.ClearPillars(); err != nil {
		return err
	}
	for _, p := range pillars {
		if err := insertPillar(t.tx, p); err != nil {
			return err
		}
	}
	return nil
}

func insertPillar(q dbtx, p *models.Pillar) error {
	_, err := q.Exec(`
		INSERT INTO pillars (`+pillarColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, string(p.Category), p.CadenceDays, p.MinWeight, p.FloorWeight,
		p.PRWeight, nullableMs(p.LastLoggedAt), nullableMs(p.LastQualifiedAt), p.TotalWorkouts,
		boolInt(p.Active), p.Notes, encodeList(p.AccessoryIDs), boolInt(p.TrackOverload),
		p.OverloadThreshold, timeToMs(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert pillar %s: %w", p.ID, err)
	}
	return nil
}

func replacePillar(q dbtx, p *models.Pillar) error {
	_, err := q.Exec(`
		INSERT OR REPLACE INTO pillars (`+pillarColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, string(p.Category), p.CadenceDays, p.MinWeight, p.FloorWeight,
		p.PRWeight, nullableMs(p.LastLoggedAt), nullableMs(p.LastQualifiedAt), p.TotalWorkouts,
		boolInt(p.Active), p.Notes, encodeList(p.AccessoryIDs), boolInt(p.TrackOverload),
		p.OverloadThreshold, timeToMs(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("replace pillar %s: %w", p.ID, err)
	}
	return nil
}

func getPillar(q dbtx, id string) (*models.Pillar, error) {
	row := q.QueryRow("SELECT "+pillarColumns+" FROM pillars WHERE id = ?", id)
	p, err := scanPillar(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pillar %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pillar %s: %w", id, err)
	}
	return p, nil
}

func listPillars(q dbtx, activeOnly bool) ([]*models.Pillar, error) {
	query := "SELECT " + pillarColumns + " FROM pillars"
	if activeOnly {
		// NULL predates the explicit flag and reads as active.
		query += " WHERE active IS NULL OR active != 0"
	}
	query += " ORDER BY name"

	rows, err := q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list pillars: %w", err)
	}
	defer rows.Close()

	var pillars []*models.Pillar
	for rows.Next() {
		p, err := scanPillar(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan pillar: %w", err)
		}
		pillars = append(pillars, p)
	}
	return pillars, rows.Err()
}

// updatePillarFields merges non-nil patch fields into the row and reports
// whether the qualifying threshold moved.
func updatePillarFields(q dbtx, id string, patch models.PillarPatch) (minChanged bool, err error) {
	var sets []string
	var args []any

	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", string(*patch.Category))
	}
	if patch.CadenceDays != nil {
		add("cadence_days", *patch.CadenceDays)
	}
	if patch.MinWeight != nil {
		add("min_weight", *patch.MinWeight)
		minChanged = true
	}
	if patch.FloorWeight != nil {
		add("floor_weight", *patch.FloorWeight)
	}
	if patch.Active != nil {
		add("active", boolInt(*patch.Active))
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.AccessoryIDs != nil {
		add("accessory_ids", encodeList(*patch.AccessoryIDs))
	}
	if patch.TrackOverload != nil {
		add("track_overload", boolInt(*patch.TrackOverload))
	}
	if patch.OverloadThreshold != nil {
		add("overload_threshold", *patch.OverloadThreshold)
	}

	if len(sets) == 0 {
		return false, nil
	}

	args = append(args, id)
	result, err := q.Exec("UPDATE pillars SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("update pillar %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update pillar %s: %w", id, err)
	}
	if affected == 0 {
		return false, fmt.Errorf("pillar %s: %w", id, ErrNotFound)
	}
	return minChanged, nil
}

func setPillarActive(q dbtx, id string, active bool) error {
	result, err := q.Exec("UPDATE pillars SET active = ? WHERE id = ?", boolInt(active), id)
	if err != nil {
		return fmt.Errorf("set pillar active: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set pillar active: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("pillar %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanPillar reads one pillar row via the given scan function, resolving
// the legacy NULL active flag to true at this boundary.
func scanPillar(scan func(dest ...any) error) (*models.Pillar, error) {
	var p models.Pillar
	var category string
	var lastLogged, lastQualified sql.NullInt64
	var active sql.NullInt64
	var notes sql.NullString
	var accessoryIDs string
	var trackOverload int64
	var overloadThreshold sql.NullFloat64
	var createdAt int64

	err := scan(&p.ID, &p.Name, &category, &p.CadenceDays, &p.MinWeight, &p.FloorWeight,
		&p.PRWeight, &lastLogged, &lastQualified, &p.TotalWorkouts,
		&active, &notes, &accessoryIDs, &trackOverload, &overloadThreshold, &createdAt)
	if err != nil {
		return nil, err
	}

	p.Category = models.Category(category)
	p.LastLoggedAt = msPtr(lastLogged)
	p.LastQualifiedAt = msPtr(lastQualified)
	p.Active = !active.Valid || active.Int64 != 0
	p.Notes = strPtr(notes)
	p.AccessoryIDs = decodeList(accessoryIDs)
	p.TrackOverload = trackOverload != 0
	p.OverloadThreshold = floatPtr(overloadThreshold)
	p.CreatedAt = msToTime(createdAt)
	return &p, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// encodeList stores a string slice as a JSON text column, never NULL.
func encodeList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, _ := json.Marshal(list)
	return string(data)
}

// decodeList reads a JSON text column back to a slice; bad or empty
// values decode to nil.
func decodeList(data string) []string {
	if data == "" || data == "[]" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil
	}
	return list
}
