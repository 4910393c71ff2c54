// ABOUTME: Tests for the Repository facade over SQLite.
// ABOUTME: Covers pillar/accessory/session/config CRUD and change notification.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/pillars/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "pillars-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "pillars.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestCreateAndGetPillar(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7).WithWeights(60, 50)
	p.WithNotes("elbow pad helps")

	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}

	got, err := db.GetPillar("custom_zercher_squat")
	if err != nil {
		t.Fatalf("GetPillar failed: %v", err)
	}
	if got.Name != "Zercher Squat" {
		t.Errorf("Name mismatch: got %q", got.Name)
	}
	if got.Category != models.CategorySquat {
		t.Errorf("Category mismatch: got %v", got.Category)
	}
	if got.MinWeight != 60 || got.FloorWeight != 50 {
		t.Errorf("Weights mismatch: got %v/%v", got.MinWeight, got.FloorWeight)
	}
	if got.Notes == nil || *got.Notes != "elbow pad helps" {
		t.Errorf("Notes mismatch: got %v", got.Notes)
	}
	if !got.Active {
		t.Error("new pillar should be active")
	}
}

func TestGetPillarNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetPillar("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePillarDuplicate(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7)
	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}

	// Same ID
	if err := db.CreatePillar(models.NewPillar("Zercher Squat", models.CategorySquat, 7)); err == nil {
		t.Error("expected duplicate ID to be rejected")
	}

	// Same name, different casing, different ID
	dup := models.NewPillar("ZERCHER squat", models.CategoryHinge, 7)
	dup.ID = "custom_other_id"
	if err := db.CreatePillar(dup); err == nil {
		t.Error("expected case-insensitive duplicate name to be rejected")
	}
}

func TestUpdatePillarMergesFields(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7).WithWeights(60, 50)
	p.WithNotes("original")
	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}

	// Two patches to disjoint fields: both must persist.
	cadence := 10
	if _, err := db.UpdatePillar(p.ID, models.PillarPatch{CadenceDays: &cadence}); err != nil {
		t.Fatalf("UpdatePillar cadence failed: %v", err)
	}
	notes := "updated"
	if _, err := db.UpdatePillar(p.ID, models.PillarPatch{Notes: &notes}); err != nil {
		t.Fatalf("UpdatePillar notes failed: %v", err)
	}

	got, err := db.GetPillar(p.ID)
	if err != nil {
		t.Fatalf("GetPillar failed: %v", err)
	}
	if got.CadenceDays != 10 {
		t.Errorf("cadence patch lost: got %d", got.CadenceDays)
	}
	if got.Notes == nil || *got.Notes != "updated" {
		t.Errorf("notes patch lost: got %v", got.Notes)
	}
	if got.MinWeight != 60 {
		t.Errorf("untouched field changed: min %v", got.MinWeight)
	}
}

func TestUpdatePillarNotFound(t *testing.T) {
	db := setupTestDB(t)

	cadence := 5
	_, err := db.UpdatePillar("nope", models.PillarPatch{CadenceDays: &cadence})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestArchiveAndRestorePillar(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7)
	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}

	if err := db.ArchivePillar(p.ID); err != nil {
		t.Fatalf("ArchivePillar failed: %v", err)
	}

	active, err := db.ActivePillars()
	if err != nil {
		t.Fatalf("ActivePillars failed: %v", err)
	}
	for _, ap := range active {
		if ap.ID == p.ID {
			t.Error("archived pillar still listed as active")
		}
	}

	all, err := db.ListPillars()
	if err != nil {
		t.Fatalf("ListPillars failed: %v", err)
	}
	found := false
	for _, lp := range all {
		if lp.ID == p.ID {
			found = true
			if lp.Active {
				t.Error("archived pillar reported active")
			}
		}
	}
	if !found {
		t.Error("archived pillar dropped from full listing")
	}

	if err := db.RestorePillar(p.ID); err != nil {
		t.Fatalf("RestorePillar failed: %v", err)
	}
	got, err := db.GetPillar(p.ID)
	if err != nil {
		t.Fatalf("GetPillar failed: %v", err)
	}
	if !got.Active {
		t.Error("restored pillar should be active")
	}
}

func TestAccessoryCRUD(t *testing.T) {
	db := setupTestDB(t)

	a := models.NewAccessory("Nordic Curl", "hamstrings", "eccentric")
	if err := db.CreateAccessory(a); err != nil {
		t.Fatalf("CreateAccessory failed: %v", err)
	}

	got, err := db.GetAccessory(a.ID)
	if err != nil {
		t.Fatalf("GetAccessory failed: %v", err)
	}
	if got.Name != "Nordic Curl" || len(got.Tags) != 2 {
		t.Errorf("accessory mismatch: %+v", got)
	}

	if err := db.CreateAccessory(models.NewAccessory("Nordic Curl")); err == nil {
		t.Error("expected duplicate accessory to be rejected")
	}

	got.Tags = []string{"hamstrings"}
	if err := db.ReplaceAccessory(got); err != nil {
		t.Fatalf("ReplaceAccessory failed: %v", err)
	}
	got2, err := db.GetAccessory(a.ID)
	if err != nil {
		t.Fatalf("GetAccessory failed: %v", err)
	}
	if len(got2.Tags) != 1 {
		t.Errorf("replace did not overwrite tags: %v", got2.Tags)
	}
}

func TestAddAndGetSession(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7).WithWeights(60, 50)
	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}

	s := models.NewSession().WithNotes("felt strong").WithDuration(45)
	s.Entries = append(s.Entries, p.EvaluateEntry(80))
	if err := db.AddSession(s); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}

	// Retrieve by prefix
	got, err := db.GetSession(s.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetSession by prefix failed: %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("ID mismatch: got %v", got.ID)
	}
	if len(got.Entries) != 1 || got.Entries[0].Weight != 80 {
		t.Errorf("entries mismatch: %+v", got.Entries)
	}
	if got.Notes == nil || *got.Notes != "felt strong" {
		t.Errorf("notes mismatch: %v", got.Notes)
	}
	if got.DurationMinutes == nil || *got.DurationMinutes != 45 {
		t.Errorf("duration mismatch: %v", got.DurationMinutes)
	}
}

func TestListSessionsOrderedByDate(t *testing.T) {
	db := setupTestDB(t)

	older := models.NewSession().WithDate(time.Now().Add(-48 * time.Hour))
	newer := models.NewSession().WithDate(time.Now())
	// Insert out of order
	if err := db.AddSession(newer); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}
	if err := db.AddSession(older); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}

	sessions, err := db.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != newer.ID {
		t.Error("expected most recent session first")
	}
}

func TestSessionPrefixAmbiguous(t *testing.T) {
	db := setupTestDB(t)

	a := models.NewSession()
	b := models.NewSession()
	if err := db.AddSession(a); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}
	if err := db.AddSession(b); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}

	// Find the longest shared prefix; every shorter prefix is ambiguous.
	as, bs := a.ID.String(), b.ID.String()
	shared := 0
	for shared < len(as) && as[shared] == bs[shared] {
		shared++
	}
	if shared == 0 {
		t.Skip("UUIDs share no prefix")
	}
	if _, err := db.GetSession(as[:shared]); err == nil {
		t.Error("expected ambiguous prefix to be rejected")
	}
}

func TestUpdateSessionNotesOnly(t *testing.T) {
	db := setupTestDB(t)

	s := models.NewSession()
	if err := db.AddSession(s); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}

	notes := "deload week"
	updated, err := db.UpdateSession(s.ID.String(), models.SessionPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}
	if updated.Notes == nil || *updated.Notes != "deload week" {
		t.Errorf("notes not updated: %v", updated.Notes)
	}
	if updated.Date.UnixMilli() != s.Date.UnixMilli() {
		t.Errorf("date changed by notes patch: %v vs %v", updated.Date, s.Date)
	}
}

func TestDeleteSession(t *testing.T) {
	db := setupTestDB(t)

	s := models.NewSession()
	if err := db.AddSession(s); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}
	if err := db.DeleteSession(s.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := db.GetSession(s.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	count, err := db.CountSessions()
	if err != nil {
		t.Fatalf("CountSessions failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 sessions, got %d", count)
	}
}

func TestConfigCreatedOnFirstAccess(t *testing.T) {
	db := setupTestDB(t)

	cfg, err := db.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if cfg.Key != models.ConfigKey {
		t.Errorf("key mismatch: %q", cfg.Key)
	}
	if cfg.TargetPerSession != 3 {
		t.Errorf("default target mismatch: %d", cfg.TargetPerSession)
	}
	if cfg.DeviceID == "" {
		t.Error("device ID should be generated")
	}

	// Second read returns the same row, not a new default.
	cfg2, err := db.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if cfg2.DeviceID != cfg.DeviceID {
		t.Error("config row not stable across reads")
	}
}

func TestUpdateConfigMergesFields(t *testing.T) {
	db := setupTestDB(t)

	target := 5
	if _, err := db.UpdateConfig(models.ConfigPatch{TargetPerSession: &target}); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}
	now := time.Now()
	if _, err := db.UpdateConfig(models.ConfigPatch{LastExportAt: &now}); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}

	cfg, err := db.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if cfg.TargetPerSession != 5 {
		t.Errorf("target patch lost: %d", cfg.TargetPerSession)
	}
	if cfg.LastExportAt == nil || cfg.LastExportAt.UnixMilli() != now.UnixMilli() {
		t.Errorf("export timestamp mismatch: %v", cfg.LastExportAt)
	}
}

func TestPutConfigForcesKey(t *testing.T) {
	db := setupTestDB(t)

	if err := db.PutConfig(&models.Config{Key: "rogue", TargetPerSession: 4, DeviceID: "d"}); err != nil {
		t.Fatalf("PutConfig failed: %v", err)
	}

	cfg, err := db.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if cfg.Key != models.ConfigKey {
		t.Errorf("key not forced: %q", cfg.Key)
	}
	if cfg.TargetPerSession != 4 {
		t.Errorf("put did not persist: %d", cfg.TargetPerSession)
	}
}

func TestChangeListenerFiresAfterMutation(t *testing.T) {
	db := setupTestDB(t)

	fired := make(chan struct{}, 8)
	db.SetChangeListener(func() error {
		fired <- struct{}{}
		return nil
	})

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7)
	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not fire after mutation")
	}
}

func TestChangeListenerNotFiredOnReads(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7)
	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}

	fired := make(chan struct{}, 8)
	db.SetChangeListener(func() error {
		fired <- struct{}{}
		return nil
	})

	if _, err := db.ListPillars(); err != nil {
		t.Fatalf("ListPillars failed: %v", err)
	}
	if _, err := db.GetPillar(p.ID); err != nil {
		t.Fatalf("GetPillar failed: %v", err)
	}
	if _, err := db.ExportJSON(); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	select {
	case <-fired:
		t.Fatal("listener fired on a read-only operation")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestChangeListenerFailureDoesNotFailMutation(t *testing.T) {
	db := setupTestDB(t)

	db.SetChangeListener(func() error {
		return fmt.Errorf("backup target unreachable")
	})

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7)
	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("mutation failed because of listener error: %v", err)
	}

	// The write itself committed.
	if _, err := db.GetPillar(p.ID); err != nil {
		t.Fatalf("GetPillar failed: %v", err)
	}
}

func TestSetChangeListenerReplaces(t *testing.T) {
	db := setupTestDB(t)

	first := make(chan struct{}, 8)
	second := make(chan struct{}, 8)
	db.SetChangeListener(func() error { first <- struct{}{}; return nil })
	db.SetChangeListener(func() error { second <- struct{}{}; return nil })

	p := models.NewPillar("Zercher Squat", models.CategorySquat, 7)
	if err := db.CreatePillar(p); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}

	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement listener did not fire")
	}
	select {
	case <-first:
		t.Fatal("replaced listener still fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDeleteDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "pillars.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := db.CreatePillar(models.NewPillar("Zercher Squat", models.CategorySquat, 7)); err != nil {
		t.Fatalf("CreatePillar failed: %v", err)
	}

	if err := db.DeleteDatabase(); err != nil {
		t.Fatalf("DeleteDatabase failed: %v", err)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Error("database file still exists")
	}
}
