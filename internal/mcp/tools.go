package mcpserver

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/samber/lo"

	"ccviewer/internal/projects"
)

// list_projects

type listProjectsInput struct{}

type projectInfo struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	SessionCount int    `json:"sessionCount"`
	LastActivity string `json:"lastActivity,omitempty"`
}

type listProjectsOutput struct {
	Projects []projectInfo `json:"projects"`
}

func (s *Server) listProjectsHandler(ctx context.Context, req *mcpsdk.CallToolRequest, input listProjectsInput) (*mcpsdk.CallToolResult, listProjectsOutput, error) {
	list, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, listProjectsOutput{}, fmt.Errorf("failed to list projects: %w", err)
	}

	infos := lo.Map(list, func(p projects.ProjectSummary, _ int) projectInfo {
		return projectInfo{
			ID:           p.ID,
			DisplayName:  p.DisplayName,
			SessionCount: p.SessionCount,
			LastActivity: formatTime(p.LastActivity),
		}
	})
	return nil, listProjectsOutput{Projects: infos}, nil
}

// list_sessions

type listSessionsInput struct {
	Project string `json:"project" jsonschema:"Project id as returned by list_projects"`
}

type agentInfo struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Timestamp    string `json:"timestamp,omitempty"`
	MessageCount int    `json:"messageCount"`
}

type sessionInfo struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Timestamp     string      `json:"timestamp,omitempty"`
	Size          int64       `json:"size"`
	MessageCount  int         `json:"messageCount"`
	AgentSessions []agentInfo `json:"agentSessions"`
}

type listSessionsOutput struct {
	Project  string        `json:"project"`
	Sessions []sessionInfo `json:"sessions"`
}

func (s *Server) listSessionsHandler(ctx context.Context, req *mcpsdk.CallToolRequest, input listSessionsInput) (*mcpsdk.CallToolResult, listSessionsOutput, error) {
	if input.Project == "" {
		return nil, listSessionsOutput{}, fmt.Errorf("project is required")
	}

	list, err := s.store.ListSessions(ctx, input.Project)
	if err != nil {
		return nil, listSessionsOutput{}, err
	}

	sessions := lo.Map(list, func(ss projects.SessionSummary, _ int) sessionInfo {
		return sessionInfo{
			ID:           ss.ID,
			Title:        ss.Title,
			Timestamp:    formatTime(ss.Timestamp),
			Size:         ss.Size,
			MessageCount: ss.MessageCount,
			AgentSessions: lo.Map(ss.AgentSessions, func(a projects.AgentSession, _ int) agentInfo {
				return agentInfo{
					ID:           a.ID,
					Title:        a.Title,
					Timestamp:    formatTime(a.Timestamp),
					MessageCount: a.MessageCount,
				}
			}),
		}
	})
	return nil, listSessionsOutput{Project: input.Project, Sessions: sessions}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
