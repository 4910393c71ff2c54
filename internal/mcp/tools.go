// ABOUTME: MCP tool implementations for the pillars store.
// ABOUTME: Session logging, pillar browsing, and threshold adjustment.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/pillars/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_session",
		Description: "Log a workout session with weights for one or more pillars",
	}, s.handleLogSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_pillars",
		Description: "List tracked pillars with their PRs and recency statistics",
	}, s.handleListPillars)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_pillar",
		Description: "Get a single pillar with its full session history",
	}, s.handleGetPillar)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_min_weight",
		Description: "Change a pillar's minimum qualifying weight (re-derives its statistics)",
	}, s.handleSetMinWeight)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recent workout sessions",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session by ID or ID prefix (rolls back affected PRs)",
	}, s.handleDeleteSession)
}

// Tool input/output types

type logSessionInput struct {
	Lifts []liftInput `json:"lifts" jsonschema:"Pillar lifts performed (pillar_id + weight)"`
	Date  string      `json:"date,omitempty" jsonschema:"Session date (ISO 8601), defaults to now"`
	Notes string      `json:"notes,omitempty" jsonschema:"Optional session notes"`
}

type liftInput struct {
	PillarID string  `json:"pillar_id" jsonschema:"Pillar ID (e.g. back_squat)"`
	Weight   float64 `json:"weight" jsonschema:"Top set weight in kg"`
}

type sessionOutput struct {
	ID      string   `json:"id"`
	PRs     []string `json:"prs,omitempty"`
	Message string   `json:"message"`
}

type getPillarInput struct {
	ID string `json:"id" jsonschema:"Pillar ID"`
}

type setMinWeightInput struct {
	ID        string  `json:"id" jsonschema:"Pillar ID"`
	MinWeight float64 `json:"min_weight" jsonschema:"New minimum qualifying weight in kg"`
}

type listSessionsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type deleteSessionInput struct {
	ID string `json:"id" jsonschema:"Session ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleLogSession(ctx context.Context, req *mcp.CallToolRequest, input logSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	if len(input.Lifts) == 0 {
		return nil, sessionOutput{}, fmt.Errorf("a session needs at least one lift")
	}

	session := models.NewSession()
	if input.Date != "" {
		t, err := time.Parse(time.RFC3339, input.Date)
		if err != nil {
			t, err = time.Parse("2006-01-02", input.Date)
		}
		if err == nil {
			session.WithDate(t)
		}
	}
	if input.Notes != "" {
		session.WithNotes(input.Notes)
	}

	var prs []string
	for _, lift := range input.Lifts {
		p, err := s.repo.GetPillar(lift.PillarID)
		if err != nil {
			return nil, sessionOutput{}, fmt.Errorf("unknown pillar: %s", lift.PillarID)
		}
		entry := p.EvaluateEntry(models.RoundWeight(lift.Weight))
		if entry.IsPR {
			prs = append(prs, p.Name)
		}
		session.Entries = append(session.Entries, entry)
	}

	if err := s.repo.AddSession(session); err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to log session: %w", err)
	}

	return nil, sessionOutput{
		ID:      session.ID.String()[:8],
		PRs:     prs,
		Message: fmt.Sprintf("Logged session with %d lifts (ID: %s)", len(session.Entries), session.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListPillars(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	pillars, err := s.repo.ActivePillars()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pillars: %w", err)
	}
	if len(pillars) == 0 {
		return nil, map[string]any{"message": "No pillars found."}, nil
	}
	return nil, pillars, nil
}

func (s *Server) handleGetPillar(ctx context.Context, req *mcp.CallToolRequest, input getPillarInput) (*mcp.CallToolResult, any, error) {
	p, err := s.repo.GetPillar(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("pillar not found: %s", input.ID)
	}

	sessions, err := s.repo.SessionsForPillar(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}

	return nil, map[string]any{
		"pillar":   p,
		"sessions": sessions,
	}, nil
}

func (s *Server) handleSetMinWeight(ctx context.Context, req *mcp.CallToolRequest, input setMinWeightInput) (*mcp.CallToolResult, simpleOutput, error) {
	p, err := s.repo.UpdatePillar(input.ID, models.PillarPatch{MinWeight: &input.MinWeight})
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update pillar: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("%s minimum set to %.1f kg (PR now %.1f kg over %d workouts)",
			p.Name, p.MinWeight, p.PRWeight, p.TotalWorkouts),
	}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	sessions, err := s.repo.ListSessions()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil, map[string]any{"message": "No sessions found."}, nil
	}
	if len(sessions) > input.Limit {
		sessions = sessions[:input.Limit]
	}
	return nil, sessions, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, req *mcp.CallToolRequest, input deleteSessionInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteSession(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete session: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted session: %s", input.ID),
	}, nil
}
