// ABOUTME: Tests for session model helpers.
// ABOUTME: Covers distinct pillar IDs and stats-touching patch detection.
package models

import (
	"testing"
	"time"
)

func TestSessionPillarIDs(t *testing.T) {
	s := NewSession()
	s.Entries = []SessionEntry{
		{PillarID: "back_squat", Weight: 100},
		{PillarID: "deadlift", Weight: 140},
		{PillarID: "back_squat", Weight: 105},
	}

	ids := s.PillarIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct pillar IDs, got %d", len(ids))
	}
	if ids[0] != "back_squat" || ids[1] != "deadlift" {
		t.Errorf("unexpected IDs: %v", ids)
	}
}

func TestSessionPatchTouchesStats(t *testing.T) {
	notes := "deload"
	if (&SessionPatch{Notes: &notes}).TouchesStats() {
		t.Error("notes-only patch must not touch stats")
	}

	now := time.Now()
	if !(&SessionPatch{Date: &now}).TouchesStats() {
		t.Error("date patch must touch stats")
	}
	untracked := true
	if !(&SessionPatch{Untracked: &untracked}).TouchesStats() {
		t.Error("untracked patch must touch stats")
	}
	entries := []SessionEntry{}
	if !(&SessionPatch{Entries: &entries}).TouchesStats() {
		t.Error("entries patch must touch stats")
	}
}
