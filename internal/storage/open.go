// ABOUTME: Single-flight startup path: open, migrate, and seed once.
// ABOUTME: Concurrent callers share one attempt; failure resets for a clean retry.
package storage

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Initializer memoizes the full startup path (open + migrate + seed) so
// concurrent callers during startup share a single attempt. Success is
// cached; failure resets the guard so the next call retries from
// scratch instead of replaying a cached error.
type Initializer struct {
	dbPath string

	group singleflight.Group
	mu    sync.Mutex
	db    *DB
}

// NewInitializer creates an Initializer for the database at dbPath.
func NewInitializer(dbPath string) *Initializer {
	return &Initializer{dbPath: dbPath}
}

// Get returns the initialized store, performing open+migrate+seed on
// first use. All concurrent callers observe the single in-flight
// attempt's outcome.
func (i *Initializer) Get() (*DB, error) {
	i.mu.Lock()
	if i.db != nil {
		db := i.db
		i.mu.Unlock()
		return db, nil
	}
	i.mu.Unlock()

	v, err, _ := i.group.Do("open", func() (any, error) {
		db, err := Open(i.dbPath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSeeded(); err != nil {
			_ = db.Close()
			return nil, err
		}

		i.mu.Lock()
		i.db = db
		i.mu.Unlock()
		return db, nil
	})
	if err != nil {
		// Nothing cached: the next Get starts over.
		return nil, err
	}
	return v.(*DB), nil
}

// Close closes the cached store, if any, and resets the guard.
func (i *Initializer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.db == nil {
		return nil
	}
	err := i.db.Close()
	i.db = nil
	return err
}
