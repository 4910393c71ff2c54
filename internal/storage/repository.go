// ABOUTME: Repository interface and the DB facade implementing it.
// ABOUTME: Mutations run transactionally and fire the single change listener.
package storage

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harperreed/pillars/internal/models"
)

// Repository is the only surface other layers call. Mutating operations
// are atomic, trigger statistics recalculation where session history or
// thresholds are affected, and schedule a best-effort change
// notification after commit.
type Repository interface {
	// Pillar operations
	ListPillars() ([]*models.Pillar, error)
	ActivePillars() ([]*models.Pillar, error)
	GetPillar(id string) (*models.Pillar, error)
	CreatePillar(p *models.Pillar) error
	UpdatePillar(id string, patch models.PillarPatch) (*models.Pillar, error)
	ReplacePillar(p *models.Pillar) error
	ArchivePillar(id string) error
	RestorePillar(id string) error
	ClearPillars() error
	BulkReplacePillars(pillars []*models.Pillar) error

	// Accessory operations
	ListAccessories() ([]*models.Accessory, error)
	GetAccessory(id string) (*models.Accessory, error)
	CreateAccessory(a *models.Accessory) error
	ReplaceAccessory(a *models.Accessory) error
	ClearAccessories() error
	BulkReplaceAccessories(accessories []*models.Accessory) error

	// Session operations
	AddSession(s *models.Session) error
	UpdateSession(idOrPrefix string, patch models.SessionPatch) (*models.Session, error)
	DeleteSession(idOrPrefix string) error
	GetSession(idOrPrefix string) (*models.Session, error)
	ListSessions() ([]*models.Session, error)
	SessionsForPillar(pillarID string) ([]*models.Session, error)
	CountSessions() (int, error)
	ClearSessions() error
	BulkReplaceSessions(sessions []*models.Session) error

	// Config operations
	GetConfig() (*models.Config, error)
	PutConfig(c *models.Config) error
	UpdateConfig(patch models.ConfigPatch) (*models.Config, error)

	// Seeding and transactions
	EnsureSeeded() error
	RunTransaction(fn func(tx *Tx) error) error

	// Export/Import
	ExportJSON() ([]byte, error)
	ImportJSON(data []byte) error

	// Change notification and lifecycle
	SetChangeListener(fn func() error)
	Close() error
	DeleteDatabase() error
}

// listenerSlot holds the single change listener. Setting a new one
// silently replaces the previous.
type listenerSlot struct {
	mu sync.Mutex
	fn func() error
}

// SetChangeListener installs the change listener, replacing any previous
// one. A nil fn clears the slot.
func (d *DB) SetChangeListener(fn func() error) {
	d.listener.mu.Lock()
	defer d.listener.mu.Unlock()
	d.listener.fn = fn
}

// notifyChange fires the listener out-of-band after a committed
// mutation. Errors and panics are logged and swallowed; the originating
// call has already succeeded and must stay succeeded.
func (d *DB) notifyChange() {
	d.listener.mu.Lock()
	fn := d.listener.fn
	d.listener.mu.Unlock()
	if fn == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("change listener panicked", "panic", r)
			}
		}()
		if err := fn(); err != nil {
			log.Error("change listener failed", "err", err)
		}
	}()
}

// ListPillars returns every pillar, archived included.
func (d *DB) ListPillars() ([]*models.Pillar, error) {
	return listPillars(d.db, false)
}

// ActivePillars returns non-archived pillars.
func (d *DB) ActivePillars() ([]*models.Pillar, error) {
	return listPillars(d.db, true)
}

// GetPillar retrieves a pillar by ID.
func (d *DB) GetPillar(id string) (*models.Pillar, error) {
	return getPillar(d.db, id)
}

// CreatePillar inserts a new pillar.
func (d *DB) CreatePillar(p *models.Pillar) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.CreatePillar(p) })
}

// UpdatePillar applies a field-level merge, recalculating statistics on
// a qualifying-threshold change.
func (d *DB) UpdatePillar(id string, patch models.PillarPatch) (*models.Pillar, error) {
	var updated *models.Pillar
	err := d.RunTransaction(func(tx *Tx) error {
		var err error
		updated, err = tx.UpdatePillar(id, patch)
		return err
	})
	return updated, err
}

// ReplacePillar overwrites a whole pillar row.
func (d *DB) ReplacePillar(p *models.Pillar) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.ReplacePillar(p) })
}

// ArchivePillar soft-deletes a pillar.
func (d *DB) ArchivePillar(id string) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.ArchivePillar(id) })
}

// RestorePillar reverses an archive.
func (d *DB) RestorePillar(id string) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.RestorePillar(id) })
}

// ClearPillars removes every pillar.
func (d *DB) ClearPillars() error {
	return d.RunTransaction(func(tx *Tx) error { return tx.ClearPillars() })
}

// BulkReplacePillars replaces all pillar rows wholesale.
func (d *DB) BulkReplacePillars(pillars []*models.Pillar) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.BulkReplacePillars(pillars) })
}

// ListAccessories returns every accessory.
func (d *DB) ListAccessories() ([]*models.Accessory, error) {
	return listAccessories(d.db)
}

// GetAccessory retrieves an accessory by ID.
func (d *DB) GetAccessory(id string) (*models.Accessory, error) {
	return getAccessory(d.db, id)
}

// CreateAccessory inserts a new accessory.
func (d *DB) CreateAccessory(a *models.Accessory) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.CreateAccessory(a) })
}

// ReplaceAccessory overwrites a whole accessory row.
func (d *DB) ReplaceAccessory(a *models.Accessory) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.ReplaceAccessory(a) })
}

// ClearAccessories removes every accessory.
func (d *DB) ClearAccessories() error {
	return d.RunTransaction(func(tx *Tx) error { return tx.ClearAccessories() })
}

// BulkReplaceAccessories replaces all accessory rows wholesale.
func (d *DB) BulkReplaceAccessories(accessories []*models.Accessory) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.BulkReplaceAccessories(accessories) })
}

// AddSession stores a session and recalculates the pillars it touches.
func (d *DB) AddSession(s *models.Session) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.AddSession(s) })
}

// UpdateSession applies a field-level merge to a session.
func (d *DB) UpdateSession(idOrPrefix string, patch models.SessionPatch) (*models.Session, error) {
	var updated *models.Session
	err := d.RunTransaction(func(tx *Tx) error {
		var err error
		updated, err = tx.UpdateSession(idOrPrefix, patch)
		return err
	})
	return updated, err
}

// DeleteSession removes a session and recalculates the pillars it touched.
func (d *DB) DeleteSession(idOrPrefix string) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.DeleteSession(idOrPrefix) })
}

// GetSession retrieves a session by ID or unique ID prefix.
func (d *DB) GetSession(idOrPrefix string) (*models.Session, error) {
	id, err := resolveSessionID(d.db, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return getSession(d.db, id)
}

// ListSessions returns all sessions, most recent first.
func (d *DB) ListSessions() ([]*models.Session, error) {
	return listSessions(d.db)
}

// SessionsForPillar returns the sessions containing an entry for a pillar.
func (d *DB) SessionsForPillar(pillarID string) ([]*models.Session, error) {
	return sessionsForPillar(d.db, pillarID)
}

// CountSessions returns the number of stored sessions.
func (d *DB) CountSessions() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n)
	return n, err
}

// ClearSessions removes every session and zeroes pillar statistics.
func (d *DB) ClearSessions() error {
	return d.RunTransaction(func(tx *Tx) error { return tx.ClearSessions() })
}

// BulkReplaceSessions replaces all session rows wholesale and re-derives
// pillar statistics from the new history.
func (d *DB) BulkReplaceSessions(sessions []*models.Session) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.BulkReplaceSessions(sessions) })
}

// GetConfig returns the singleton config row, creating it on first access.
func (d *DB) GetConfig() (*models.Config, error) {
	return getConfig(d.db)
}

// PutConfig overwrites the whole config row.
func (d *DB) PutConfig(c *models.Config) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.PutConfig(c) })
}

// UpdateConfig applies a field-level merge to the config row.
func (d *DB) UpdateConfig(patch models.ConfigPatch) (*models.Config, error) {
	var updated *models.Config
	err := d.RunTransaction(func(tx *Tx) error {
		var err error
		updated, err = tx.UpdateConfig(patch)
		return err
	})
	return updated, err
}

// RecalcPillar re-derives one pillar's statistics in its own transaction.
func (d *DB) RecalcPillar(id string) error {
	return d.RunTransaction(func(tx *Tx) error { return tx.RecalcPillar(id) })
}
