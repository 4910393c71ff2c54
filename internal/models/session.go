// ABOUTME: Session model for a single logged workout.
// ABOUTME: Entries carry snapshot flags computed at logging time.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one workout event. Date is user-editable and not
// necessarily monotonic with creation order.
type Session struct {
	ID              uuid.UUID        `json:"id"`
	Date            time.Time        `json:"date"`
	Entries         []SessionEntry   `json:"entries"`
	Accessories     []AccessoryEntry `json:"accessories"`
	Notes           *string          `json:"notes,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Calories        *int             `json:"calories,omitempty"`
	Untracked       bool             `json:"untracked"`
	CreatedAt       time.Time        `json:"created_at"`
}

// NewSession creates a new Session dated now.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.New(),
		Date:        now,
		Entries:     []SessionEntry{},
		Accessories: []AccessoryEntry{},
		CreatedAt:   now,
	}
}

// WithDate sets a custom session date.
func (s *Session) WithDate(t time.Time) *Session {
	s.Date = t
	return s
}

// WithNotes sets notes on the session.
func (s *Session) WithNotes(notes string) *Session {
	s.Notes = &notes
	return s
}

// WithDuration sets the duration in minutes.
func (s *Session) WithDuration(minutes int) *Session {
	s.DurationMinutes = &minutes
	return s
}

// PillarIDs returns the distinct pillar IDs referenced by the session's entries.
func (s *Session) PillarIDs() []string {
	seen := make(map[string]bool, len(s.Entries))
	var ids []string
	for _, e := range s.Entries {
		if !seen[e.PillarID] {
			seen[e.PillarID] = true
			ids = append(ids, e.PillarID)
		}
	}
	return ids
}

// SessionEntry is one pillar set within a session. Counted, IsPR, and
// Warning are snapshots of the pillar's thresholds at logging time; they
// are display history and are never revised afterward.
type SessionEntry struct {
	PillarID string  `json:"pillar_id"`
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Counted  bool    `json:"counted"`
	IsPR     bool    `json:"is_pr"`
	Warning  bool    `json:"warning"`
}

// AccessoryEntry records whether an accessory was performed in a session.
type AccessoryEntry struct {
	AccessoryID string `json:"accessory_id"`
	Name        string `json:"name"`
	Performed   bool   `json:"performed"`
}

// SessionPatch is a partial update to a session. Nil fields are left untouched.
type SessionPatch struct {
	Date        *time.Time
	Entries     *[]SessionEntry
	Accessories *[]AccessoryEntry
	Notes       *string
	DurationMin *int
	Calories    *int
	Untracked   *bool
}

// TouchesStats reports whether applying the patch can change any pillar's
// derived statistics.
func (p *SessionPatch) TouchesStats() bool {
	return p.Date != nil || p.Entries != nil || p.Untracked != nil
}
