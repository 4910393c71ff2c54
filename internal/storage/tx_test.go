// ABOUTME: Tests for multi-table transaction semantics.
// ABOUTME: Verifies all-or-nothing rollback across tables.
package storage

import (
	"fmt"
	"testing"

	"github.com/harperreed/pillars/internal/models"
)

func TestRunTransactionRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7)
	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}
	a := models.NewAccessory("Nordic Curl")
	if err := db.CreateAccessory(a); err != nil {
		t.Fatalf("CreateAccessory failed: %v", err)
	}

	// Clear two tables, then fail: nothing may stick.
	err := db.RunTransaction(func(tx *Tx) error {
		if err := tx.ClearPillars(); err != nil {
			return err
		}
		if err := tx.ClearAccessories(); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	pillars, err := db.ListPillars()
	if err != nil {
		t.Fatalf("ListPillars failed: %v", err)
	}
	if len(pillars) != 1 {
		t.Errorf("pillar delete leaked past rollback: %d pillars", len(pillars))
	}
	accessories, err := db.ListAccessories()
	if err != nil {
		t.Fatalf("ListAccessories failed: %v", err)
	}
	if len(accessories) != 1 {
		t.Errorf("accessory delete leaked past rollback: %d accessories", len(accessories))
	}
}

func TestRunTransactionReadsOwnWrites(t *testing.T) {
	db := setupTestDB(t)

	err := db.RunTransaction(func(tx *Tx) error {
		p := models.NewPillar("Zercher Squat", models.CategorySquat, 7)
		if err := tx.CreatePillar(p); err != nil {
			return err
		}
		got, err := tx.GetPillar(p.ID)
		if err != nil {
			return err
		}
		if got.Name != "Zercher Squat" {
			return fmt.Errorf("uncommitted write not visible in transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTransaction failed: %v", err)
	}
}

func TestRunTransactionCommits(t *testing.T) {
	db := setupTestDB(t)

	err := db.RunTransaction(func(tx *Tx) error {
		if err := tx.CreatePillar(models.NewPillar("Zercher Squat", models.CategorySquat, 7)); err != nil {
			return err
		}
		return tx.CreateAccessory(models.NewAccessory("Nordic Curl"))
	})
	if err != nil {
		t.Fatalf("RunTransaction failed: %v", err)
	}

	if _, err := db.GetPillar("custom_zercher_squat"); err != nil {
		t.Errorf("committed pillar missing: %v", err)
	}
	if _, err := db.GetAccessory("custom_nordic_curl"); err != nil {
		t.Errorf("committed accessory missing: %v", err)
	}
}
