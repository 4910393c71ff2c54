// ABOUTME: Idempotent canonical catalog seeding gated by a data version.
// ABOUTME: Refreshes definition fields only; user thresholds and stats survive.
package storage

import (
	"errors"
	"time"

	"github.com/harperreed/pillars/internal/models"
)

// canonicalDataVersion gates reseeding of the built-in catalog. It is
// independent of the schema version: bump it whenever the catalog below
// changes.
const canonicalDataVersion = 3

// sessionsDataVersion is the first data version seeded into databases
// that already had the sessions table. Databases upgraded from before it
// have no history to repair.
const sessionsDataVersion = 2

// canonicalPillar is a built-in pillar definition. Weights are starter
// values used only on first insert; reseeding never touches them.
type canonicalPillar struct {
	id          string
	name        string
	category    models.Category
	cadenceDays int
	minWeight   float64
	floorWeight float64
}

var canonicalPillars = []canonicalPillar{
	{"back_squat", "Back Squat", models.CategorySquat, 4, 60, 40},
	{"front_squat", "Front Squat", models.CategorySquat, 7, 40, 30},
	{"deadlift", "Deadlift", models.CategoryHinge, 7, 80, 60},
	{"romanian_deadlift", "Romanian Deadlift", models.CategoryHinge, 7, 50, 40},
	{"bench_press", "Bench Press", models.CategoryPush, 4, 50, 40},
	{"overhead_press", "Overhead Press", models.CategoryPush, 7, 30, 25},
	{"barbell_row", "Barbell Row", models.CategoryPull, 4, 40, 30},
	{"pull_up", "Pull-Up", models.CategoryPull, 4, 0, 0},
	{"hip_thrust", "Hip Thrust", models.CategoryHinge, 7, 60, 40},
	{"farmer_carry", "Farmer Carry", models.CategoryCarry, 7, 24, 16},
}

type canonicalAccessory struct {
	id   string
	name string
	tags []string
}

var canonicalAccessories = []canonicalAccessory{
	{"split_squat", "Bulgarian Split Squat", []string{"legs", "unilateral"}},
	{"leg_curl", "Leg Curl", []string{"legs", "hamstrings"}},
	{"lat_pulldown", "Lat Pulldown", []string{"back", "vertical"}},
	{"face_pull", "Face Pull", []string{"shoulders", "rear-delt"}},
	{"dip", "Dip", []string{"chest", "triceps"}},
	{"hanging_leg_raise", "Hanging Leg Raise", []string{"core"}},
	{"back_extension", "Back Extension", []string{"posterior", "core"}},
}

// EnsureSeeded makes sure the built-in catalog exists and is up to date.
// Safe to call on every start: when the stored data version already
// matches the code's, it is a no-op. The seed itself runs in one
// transaction spanning pillars, accessories, and config; the repair
// recalculation runs afterward in its own transaction so the seed does
// not hold a lock across a full history scan.
func (d *DB) EnsureSeeded() error {
	var prev int

	err := d.RunTransaction(func(tx *Tx) error {
		cfg, err := tx.GetConfig()
		if err != nil {
			return err
		}
		prev = cfg.DataVersion
		if prev >= canonicalDataVersion {
			return nil
		}

		for _, def := range canonicalPillars {
			if err := seedPillar(tx, def); err != nil {
				return err
			}
		}
		for _, def := range canonicalAccessories {
			if err := seedAccessory(tx, def); err != nil {
				return err
			}
		}

		version := canonicalDataVersion
		now := time.Now()
		_, err = tx.UpdateConfig(models.ConfigPatch{DataVersion: &version, SeededAt: &now})
		return err
	})
	if err != nil {
		return err
	}

	// Definition changes can shift displayed stats for existing history,
	// so upgrades from a session-aware version get a repair pass.
	if prev >= sessionsDataVersion && prev < canonicalDataVersion {
		return d.RunTransaction(func(tx *Tx) error {
			return recalcAll(tx.tx)
		})
	}
	return nil
}

// seedPillar inserts a catalog pillar if absent, otherwise refreshes its
// definition fields while preserving everything user-owned or derived.
func seedPillar(tx *Tx, def canonicalPillar) error {
	existing, err := tx.GetPillar(def.id)
	if errors.Is(err, ErrNotFound) {
		p := &models.Pillar{
			ID:          def.id,
			Name:        def.name,
			Category:    def.category,
			CadenceDays: def.cadenceDays,
			MinWeight:   def.minWeight,
			FloorWeight: def.floorWeight,
			Active:      true,
			CreatedAt:   time.Now(),
		}
		return insertPillar(tx.tx, p)
	}
	if err != nil {
		return err
	}

	existing.Name = def.name
	existing.Category = def.category
	existing.CadenceDays = def.cadenceDays
	return replacePillar(tx.tx, existing)
}

// seedAccessory inserts or refreshes a catalog accessory.
func seedAccessory(tx *Tx, def canonicalAccessory) error {
	return tx.ReplaceAccessory(&models.Accessory{
		ID:   def.id,
		Name: def.name,
		Tags: def.tags,
	})
}
