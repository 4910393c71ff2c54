// ABOUTME: SQLite DDL constants for every schema version.
// ABOUTME: The migration chain in migrate.go replays these in order.
package storage

// schemaV1 is the original layout: server-era numeric exercise keys,
// string-keyed accessories, and the singleton config row.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS exercises (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	cadence_days INTEGER NOT NULL DEFAULT 7,
	min_weight REAL NOT NULL DEFAULT 0,
	floor_weight REAL NOT NULL DEFAULT 0,
	active INTEGER,
	notes TEXT,
	created_at INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS accessories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	target_per_session INTEGER NOT NULL DEFAULT 3,
	data_version INTEGER NOT NULL DEFAULT 0,
	device_id TEXT NOT NULL DEFAULT '',
	last_export_at INTEGER,
	last_sync_at INTEGER,
	persist_storage INTEGER NOT NULL DEFAULT 0,
	seeded_at INTEGER
);
`

// schemaV2Pillars re-keys exercises by stable string slugs under the
// pillars table name. Row contents are copied over by migrateV2.
const schemaV2Pillars = `
CREATE TABLE pillars (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	cadence_days INTEGER NOT NULL DEFAULT 7,
	min_weight REAL NOT NULL DEFAULT 0,
	floor_weight REAL NOT NULL DEFAULT 0,
	active INTEGER,
	notes TEXT,
	created_at INTEGER NOT NULL DEFAULT 0
);
`

// schemaV3 adds session history and the derived statistic columns it feeds.
const schemaV3 = `
ALTER TABLE pillars ADD COLUMN pr_weight REAL NOT NULL DEFAULT 0;
ALTER TABLE pillars ADD COLUMN last_logged_at INTEGER;
ALTER TABLE pillars ADD COLUMN last_qualified_at INTEGER;
ALTER TABLE pillars ADD COLUMN total_workouts INTEGER NOT NULL DEFAULT 0;

CREATE TABLE sessions (
	id TEXT PRIMARY KEY,
	date INTEGER NOT NULL,
	entries TEXT NOT NULL DEFAULT '[]',
	accessories TEXT NOT NULL DEFAULT '[]',
	notes TEXT,
	duration_min INTEGER,
	calories INTEGER,
	created_at INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX idx_sessions_date ON sessions(date DESC);
`

// schemaV4 adds accessory affinity hints, progressive-overload tracking,
// and the untracked session flag.
const schemaV4 = `
ALTER TABLE pillars ADD COLUMN accessory_ids TEXT NOT NULL DEFAULT '[]';
ALTER TABLE pillars ADD COLUMN track_overload INTEGER NOT NULL DEFAULT 0;
ALTER TABLE pillars ADD COLUMN overload_threshold REAL;

ALTER TABLE sessions ADD COLUMN untracked INTEGER NOT NULL DEFAULT 0;
`
