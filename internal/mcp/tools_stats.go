package mcpserver

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"ccviewer/internal/stats"
)

// registerStatsTools registers the usage report tools.
func registerStatsTools(server *mcpsdk.Server, s *Server) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "stats_overview",
		Description: "Get the token usage, cost, cache, tool and activity report across all projects for a period (7, 30, all or a day count; default 7)",
	}, s.statsOverviewHandler)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "stats_project",
		Description: "Get the usage report of a single project for a period (7, 30, all or a day count; default 7)",
	}, s.statsProjectHandler)
}

// stats_overview

type statsOverviewInput struct {
	Period string `json:"period,omitempty" jsonschema:"Time period: 7, 30, all or a positive day count (default: 7)"`
}

func (s *Server) statsOverviewHandler(ctx context.Context, req *mcpsdk.CallToolRequest, input statsOverviewInput) (*mcpsdk.CallToolResult, stats.Report, error) {
	report, err := s.engine.Overall(ctx, input.Period)
	if err != nil {
		return nil, stats.Report{}, fmt.Errorf("failed to build report: %w", err)
	}
	return nil, *report, nil
}

// stats_project

type statsProjectInput struct {
	Project string `json:"project" jsonschema:"Project id as returned by list_projects"`
	Period  string `json:"period,omitempty" jsonschema:"Time period: 7, 30, all or a positive day count (default: 7)"`
}

func (s *Server) statsProjectHandler(ctx context.Context, req *mcpsdk.CallToolRequest, input statsProjectInput) (*mcpsdk.CallToolResult, stats.Report, error) {
	if input.Project == "" {
		return nil, stats.Report{}, fmt.Errorf("project is required")
	}
	report, err := s.engine.Project(ctx, input.Project, input.Period)
	if err != nil {
		return nil, stats.Report{}, fmt.Errorf("failed to build report for %s: %w", input.Project, err)
	}
	return nil, *report, nil
}
