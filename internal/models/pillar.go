// ABOUTME: Pillar model, category enum, and slug/qualification helpers.
// ABOUTME: Pillars are primary lifts tracked on a cadence with weight thresholds.
package models

import (
	"strings"
	"time"
)

// Category groups pillars by movement pattern.
type Category string

const (
	CategorySquat Category = "squat"
	CategoryHinge Category = "hinge"
	CategoryPush  Category = "push"
	CategoryPull  Category = "pull"
	CategoryCarry Category = "carry"
	CategoryCore  Category = "core"
)

// AllCategories returns all valid pillar categories.
var AllCategories = []Category{
	CategorySquat, CategoryHinge, CategoryPush,
	CategoryPull, CategoryCarry, CategoryCore,
}

// IsValidCategory checks if a string is a valid category.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// PlateStep is the smallest loadable increment (a pair of 1.25 kg plates).
const PlateStep = 2.5

// Pillar represents a primary lift tracked on a recurrence cadence.
// PRWeight, LastLoggedAt, LastQualifiedAt, and TotalWorkouts are derived
// from session history and owned by the recalculation pass; everything
// else is user-owned.
type Pillar struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Category          Category   `json:"category"`
	CadenceDays       int        `json:"cadence_days"`
	MinWeight         float64    `json:"min_weight"`
	FloorWeight       float64    `json:"floor_weight"`
	PRWeight          float64    `json:"pr_weight"`
	LastLoggedAt      *time.Time `json:"last_logged_at,omitempty"`
	LastQualifiedAt   *time.Time `json:"last_qualified_at,omitempty"`
	TotalWorkouts     int        `json:"total_workouts"`
	Active            bool       `json:"active"`
	Notes             *string    `json:"notes,omitempty"`
	AccessoryIDs      []string   `json:"accessory_ids,omitempty"`
	TrackOverload     bool       `json:"track_overload"`
	OverloadThreshold *float64   `json:"overload_threshold,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewPillar creates a new Pillar with a slug ID derived from the name.
func NewPillar(name string, category Category, cadenceDays int) *Pillar {
	return &Pillar{
		ID:          CustomSlug(name),
		Name:        name,
		Category:    category,
		CadenceDays: cadenceDays,
		Active:      true,
		CreatedAt:   time.Now(),
	}
}

// WithWeights sets the qualifying minimum and regression floor.
func (p *Pillar) WithWeights(minWeight, floorWeight float64) *Pillar {
	p.MinWeight = minWeight
	p.FloorWeight = floorWeight
	return p
}

// WithNotes sets coaching notes on the pillar.
func (p *Pillar) WithNotes(notes string) *Pillar {
	p.Notes = &notes
	return p
}

// WithAccessories links accessory IDs as session-builder hints.
func (p *Pillar) WithAccessories(ids ...string) *Pillar {
	p.AccessoryIDs = ids
	return p
}

// EvaluateEntry computes the logging-time flags for a set at the given
// weight against the pillar's current thresholds. The returned entry is a
// snapshot: it is never rewritten when thresholds change later.
func (p *Pillar) EvaluateEntry(weight float64) SessionEntry {
	counted := weight >= p.MinWeight
	return SessionEntry{
		PillarID: p.ID,
		Name:     p.Name,
		Weight:   weight,
		Counted:  counted,
		IsPR:     counted && weight > p.PRWeight,
		Warning:  weight < p.FloorWeight,
	}
}

// RoundWeight rounds a weight to the nearest loadable plate step.
func RoundWeight(weight float64) float64 {
	steps := weight / PlateStep
	whole := float64(int64(steps))
	if steps-whole >= 0.5 {
		whole++
	}
	return whole * PlateStep
}

// Slugify lowercases a name and collapses whitespace runs to underscores.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "_")
}

// CustomSlug derives the ID for a user-created pillar. Canonical pillars
// claim the bare slug space; user pillars are prefixed so they can never
// collide with a catalog entry added later.
func CustomSlug(name string) string {
	return "custom_" + Slugify(name)
}

// PillarPatch is a partial update to a pillar. Nil fields are left
// untouched, so concurrent patches to disjoint fields all persist.
type PillarPatch struct {
	Name              *string
	Category          *Category
	CadenceDays       *int
	MinWeight         *float64
	FloorWeight       *float64
	Active            *bool
	Notes             *string
	AccessoryIDs      *[]string
	TrackOverload     *bool
	OverloadThreshold *float64
}
