// ABOUTME: MCP resource implementations for the pillars store.
// ABOUTME: Provides pillars://summary, pillars://due, and pillars://recent.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/pillars/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "pillars://summary",
		Name:        "Pillar Standings",
		Description: "Every active pillar with PR, recency, and workout counts",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "pillars://due",
		Name:        "Due Pillars",
		Description: "Pillars whose cadence interval has elapsed since the last qualifying session",
		MIMEType:    "application/json",
	}, s.handleDueResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "pillars://recent",
		Name:        "Recent Sessions",
		Description: "Last 10 logged workout sessions",
		MIMEType:    "application/json",
	}, s.handleRecentResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	pillars, err := s.repo.ActivePillars()
	if err != nil {
		return nil, fmt.Errorf("failed to list pillars: %w", err)
	}
	return jsonResource("pillars://summary", pillars)
}

func (s *Server) handleDueResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	pillars, err := s.repo.ActivePillars()
	if err != nil {
		return nil, fmt.Errorf("failed to list pillars: %w", err)
	}

	now := time.Now()
	var due []*models.Pillar
	for _, p := range pillars {
		if p.LastQualifiedAt == nil {
			due = append(due, p)
			continue
		}
		if now.Sub(*p.LastQualifiedAt) >= time.Duration(p.CadenceDays)*24*time.Hour {
			due = append(due, p)
		}
	}
	return jsonResource("pillars://due", due)
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.repo.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) > 10 {
		sessions = sessions[:10]
	}
	return jsonResource("pillars://recent", sessions)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
