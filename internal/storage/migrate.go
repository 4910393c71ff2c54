// ABOUTME: Ordered schema migration chain over PRAGMA user_version.
// ABOUTME: Each step runs in its own transaction; the chain never rolls back.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/pillars/internal/models"
)

// currentSchemaVersion is the terminal state of the migration chain.
const currentSchemaVersion = 4

// migration is one schema version transition. apply must be idempotent
// in effect: it only ever runs against a database at exactly version from.
type migration struct {
	from, to int
	apply    func(tx *sql.Tx) error
}

var migrations = []migration{
	{from: 0, to: 1, apply: migrateV1},
	{from: 1, to: 2, apply: migrateV2},
	{from: 2, to: 3, apply: migrateV3},
	{from: 3, to: 4, apply: migrateV4},
}

// legacyPillarIDs maps the display names the old server assigned numeric
// keys to onto their stable slugs. Names outside this set fall back to
// models.CustomSlug.
var legacyPillarIDs = map[string]string{
	"Back Squat":        "back_squat",
	"Front Squat":       "front_squat",
	"Deadlift":          "deadlift",
	"Romanian Deadlift": "romanian_deadlift",
	"Bench Press":       "bench_press",
	"Overhead Press":    "overhead_press",
	"Barbell Row":       "barbell_row",
	"Pull-Up":           "pull_up",
	"Hip Thrust":        "hip_thrust",
	"Farmer Carry":      "farmer_carry",
}

// migrate replays every migration newer than the database's stored
// version. Re-running against a current database is a no-op. A failing
// step aborts the chain, leaving the database at the last completed
// version.
func (d *DB) migrate() error {
	version, err := d.schemaVersion()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.to <= version {
			continue
		}
		if m.from != version {
			return fmt.Errorf("migration gap: database at v%d, next step starts at v%d", version, m.from)
		}

		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration v%d: %w", m.to, err)
		}
		if err := m.apply(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrate v%d to v%d: %w", m.from, m.to, err)
		}
		// user_version lives in the database header and commits with the
		// transaction, so a step is either fully applied or not at all.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.to)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("set schema version %d: %w", m.to, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.to, err)
		}
		version = m.to
	}

	return nil
}

// schemaVersion reads the stored schema version (0 for a fresh database).
func (d *DB) schemaVersion() (int, error) {
	var v int
	if err := d.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// migrateV1 creates the original layout.
func migrateV1(tx *sql.Tx) error {
	_, err := tx.Exec(schemaV1)
	return err
}

// migrateV2 converts exercise primary keys from server-assigned numeric
// IDs to stable string slugs and relocates the table to pillars.
func migrateV2(tx *sql.Tx) error {
	if _, err := tx.Exec(schemaV2Pillars); err != nil {
		return fmt.Errorf("create pillars table: %w", err)
	}

	rows, err := tx.Query(`
		SELECT name, category, cadence_days, min_weight, floor_weight, active, notes, created_at
		FROM exercises ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("read legacy exercises: %w", err)
	}
	defer rows.Close()

	type legacyRow struct {
		name, category         string
		cadenceDays            int
		minWeight, floorWeight float64
		active                 sql.NullInt64
		notes                  sql.NullString
		createdAt              int64
	}
	var legacy []legacyRow
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.name, &r.category, &r.cadenceDays, &r.minWeight,
			&r.floorWeight, &r.active, &r.notes, &r.createdAt); err != nil {
			return fmt.Errorf("scan legacy exercise: %w", err)
		}
		legacy = append(legacy, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read legacy exercises: %w", err)
	}

	for _, r := range legacy {
		_, err := tx.Exec(`
			INSERT INTO pillars (id, name, category, cadence_days, min_weight, floor_weight, active, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, legacySlug(r.name), r.name, r.category, r.cadenceDays, r.minWeight,
			r.floorWeight, r.active, r.notes, r.createdAt)
		if err != nil {
			return fmt.Errorf("re-key exercise %q: %w", r.name, err)
		}
	}

	if _, err := tx.Exec("DROP TABLE exercises"); err != nil {
		return fmt.Errorf("drop legacy exercises table: %w", err)
	}
	return nil
}

// migrateV3 adds the sessions table and derived statistic columns.
func migrateV3(tx *sql.Tx) error {
	_, err := tx.Exec(schemaV3)
	return err
}

// migrateV4 adds accessory hints, overload tracking, and untracked sessions.
func migrateV4(tx *sql.Tx) error {
	_, err := tx.Exec(schemaV4)
	return err
}

// legacySlug resolves a legacy display name to its stable slug.
func legacySlug(name string) string {
	if id, ok := legacyPillarIDs[name]; ok {
		return id
	}
	return models.CustomSlug(name)
}
