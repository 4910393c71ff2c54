// ABOUTME: Singleton app config stored as the fixed "main" row.
// ABOUTME: Holds session targets, seed data version, and sync bookkeeping.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ConfigKey is the fixed primary key of the single config row.
const ConfigKey = "main"

// Config is the app-wide settings record. Created once on first run and
// only ever updated afterward.
type Config struct {
	Key              string     `json:"key"`
	TargetPerSession int        `json:"target_per_session"`
	DataVersion      int        `json:"data_version"`
	DeviceID         string     `json:"device_id"`
	LastExportAt     *time.Time `json:"last_export_at,omitempty"`
	LastSyncAt       *time.Time `json:"last_sync_at,omitempty"`
	PersistStorage   bool       `json:"persist_storage"`
	SeededAt         *time.Time `json:"seeded_at,omitempty"`
}

// DefaultConfig returns the config row created on first run.
func DefaultConfig() *Config {
	return &Config{
		Key:              ConfigKey,
		TargetPerSession: 3,
		DeviceID:         uuid.NewString(),
	}
}

// ConfigPatch is a partial update to the config row. Nil fields are left untouched.
type ConfigPatch struct {
	TargetPerSession *int
	DataVersion      *int
	DeviceID         *string
	LastExportAt     *time.Time
	LastSyncAt       *time.Time
	PersistStorage   *bool
	SeededAt         *time.Time
}
