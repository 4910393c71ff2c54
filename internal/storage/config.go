// ABOUTME: Singleton config row operations shared by the facade and transactions.
// ABOUTME: The row is created on first read and keyed by the fixed "main" key.
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/pillars/internal/models"
)

const configColumns = `key, target_per_session, data_version, device_id,
	last_export_at, last_sync_at, persist_storage, seeded_at`

// GetConfig returns the singleton config row, creating it with defaults
// on first access.
func (t *Tx) GetConfig() (*models.Config, error) {
	return getConfig(t.tx)
}

// PutConfig overwrites the whole config row. The key is forced back to
// the fixed value regardless of what the caller's copy carries.
func (t *Tx) PutConfig(c *models.Config) error {
	c.Key = models.ConfigKey
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO config (`+configColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.Key, c.TargetPerSession, c.DataVersion, c.DeviceID,
		nullableMs(c.LastExportAt), nullableMs(c.LastSyncAt),
		boolInt(c.PersistStorage), nullableMs(c.SeededAt))
	if err != nil {
		return fmt.Errorf("put config: %w", err)
	}
	return nil
}

// UpdateConfig applies a field-level merge to the config row.
func (t *Tx) UpdateConfig(patch models.ConfigPatch) (*models.Config, error) {
	// Ensure the row exists before merging into it.
	if _, err := getConfig(t.tx); err != nil {
		return nil, err
	}

	var sets []string
	var args []any

	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.TargetPerSession != nil {
		add("target_per_session", *patch.TargetPerSession)
	}
	if patch.DataVersion != nil {
		add("data_version", *patch.DataVersion)
	}
	if patch.DeviceID != nil {
		add("device_id", *patch.DeviceID)
	}
	if patch.LastExportAt != nil {
		add("last_export_at", timeToMs(*patch.LastExportAt))
	}
	if patch.LastSyncAt != nil {
		add("last_sync_at", timeToMs(*patch.LastSyncAt))
	}
	if patch.PersistStorage != nil {
		add("persist_storage", boolInt(*patch.PersistStorage))
	}
	if patch.SeededAt != nil {
		add("seeded_at", timeToMs(*patch.SeededAt))
	}

	if len(sets) > 0 {
		args = append(args, models.ConfigKey)
		if _, err := t.tx.Exec("UPDATE config SET "+strings.Join(sets, ", ")+" WHERE key = ?", args...); err != nil {
			return nil, fmt.Errorf("update config: %w", err)
		}
	}
	return getConfig(t.tx)
}

func getConfig(q dbtx) (*models.Config, error) {
	row := q.QueryRow("SELECT "+configColumns+" FROM config WHERE key = ?", models.ConfigKey)

	var c models.Config
	var lastExport, lastSync, seededAt sql.NullInt64
	var persist int64
	err := row.Scan(&c.Key, &c.TargetPerSession, &c.DataVersion, &c.DeviceID,
		&lastExport, &lastSync, &persist, &seededAt)
	if err == sql.ErrNoRows {
		// First run: create the row with defaults.
		def := models.DefaultConfig()
		if _, err := q.Exec(`
			INSERT INTO config (`+configColumns+`)
			VALUES (?, ?, ?, ?, NULL, NULL, ?, NULL)
		`, def.Key, def.TargetPerSession, def.DataVersion, def.DeviceID,
			boolInt(def.PersistStorage)); err != nil {
			return nil, fmt.Errorf("create config: %w", err)
		}
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}

	c.LastExportAt = msPtr(lastExport)
	c.LastSyncAt = msPtr(lastSync)
	c.PersistStorage = persist != 0
	c.SeededAt = msPtr(seededAt)
	return &c, nil
}
