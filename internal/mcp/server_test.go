// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/pillars/internal/models"
	"github.com/harperreed/pillars/internal/storage"
)

// setupTestDB creates a seeded test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "pillars-mcp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "pillars.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.EnsureSeeded(); err != nil {
		t.Fatalf("Failed to seed database: %v", err)
	}

	return db
}

func TestNewServer(t *testing.T) {
	db := setupTestDB(t)

	server, err := NewServer(db)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if server == nil {
		t.Fatal("Expected non-nil server")
	}
	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
}

func TestHandleLogSession(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db)
	ctx := context.Background()

	_, out, err := server.handleLogSession(ctx, nil, logSessionInput{
		Lifts: []liftInput{
			{PillarID: "back_squat", Weight: 101},
			{PillarID: "bench_press", Weight: 60},
		},
		Notes: "via assistant",
	})
	if err != nil {
		t.Fatalf("handleLogSession failed: %v", err)
	}
	if out.ID == "" {
		t.Error("expected session ID in output")
	}
	// Both lifts beat their seeded starter PRs of zero.
	if len(out.PRs) != 2 {
		t.Errorf("expected 2 PRs, got %v", out.PRs)
	}

	sessions, err := db.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	// Weight rounds to the plate step.
	if sessions[0].Entries[0].Weight != 100 {
		t.Errorf("weight not rounded: %v", sessions[0].Entries[0].Weight)
	}
}

func TestHandleLogSessionRejectsEmpty(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db)

	if _, _, err := server.handleLogSession(context.Background(), nil, logSessionInput{}); err == nil {
		t.Error("expected error for empty lift list")
	}
}

func TestHandleLogSessionUnknownPillar(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db)

	_, _, err := server.handleLogSession(context.Background(), nil, logSessionInput{
		Lifts: []liftInput{{PillarID: "nope", Weight: 100}},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown pillar") {
		t.Errorf("expected unknown pillar error, got %v", err)
	}
}

func TestHandleSetMinWeight(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db)

	_, out, err := server.handleSetMinWeight(context.Background(), nil, setMinWeightInput{
		ID: "back_squat", MinWeight: 110,
	})
	if err != nil {
		t.Fatalf("handleSetMinWeight failed: %v", err)
	}
	if !strings.Contains(out.Message, "110.0") {
		t.Errorf("unexpected message: %s", out.Message)
	}

	p, err := db.GetPillar("back_squat")
	if err != nil {
		t.Fatalf("GetPillar failed: %v", err)
	}
	if p.MinWeight != 110 {
		t.Errorf("MinWeight = %v, want 110", p.MinWeight)
	}
}

func TestHandleGetPillar(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db)

	_, out, err := server.handleGetPillar(context.Background(), nil, getPillarInput{ID: "deadlift"})
	if err != nil {
		t.Fatalf("handleGetPillar failed: %v", err)
	}
	doc, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("unexpected output type %T", out)
	}
	p, ok := doc["pillar"].(*models.Pillar)
	if !ok || p.ID != "deadlift" {
		t.Errorf("unexpected pillar payload: %v", doc["pillar"])
	}
}

func TestHandleDeleteSession(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db)
	ctx := context.Background()

	_, out, err := server.handleLogSession(ctx, nil, logSessionInput{
		Lifts: []liftInput{{PillarID: "back_squat", Weight: 100}},
	})
	if err != nil {
		t.Fatalf("handleLogSession failed: %v", err)
	}

	if _, _, err := server.handleDeleteSession(ctx, nil, deleteSessionInput{ID: out.ID}); err != nil {
		t.Fatalf("handleDeleteSession failed: %v", err)
	}

	count, err := db.CountSessions()
	if err != nil {
		t.Fatalf("CountSessions failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 sessions, got %d", count)
	}
}
