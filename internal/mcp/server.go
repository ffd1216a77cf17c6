// Package mcpserver exposes project listings and usage reports as MCP tools.
package mcpserver

import (
	"context"
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"ccviewer/internal/projects"
	"ccviewer/internal/stats"
)

// Server holds what the tool handlers read from.
type Server struct {
	store   *projects.Store
	engine  *stats.Engine
	version string
}

// New returns a Server over store and engine.
func New(store *projects.Store, engine *stats.Engine, version string) *Server {
	return &Server{store: store, engine: engine, version: version}
}

// MCP builds a fresh SDK server with every tool registered.
func (s *Server) MCP() *mcpsdk.Server {
	server := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "ccviewer",
			Version: s.version,
		},
		nil,
	)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_projects",
		Description: "List Claude Code projects with session counts and last activity, most recent first",
	}, s.listProjectsHandler)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_sessions",
		Description: "List the sessions of a project with titles, message counts and linked agent sessions",
	}, s.listSessionsHandler)

	registerStatsTools(server, s)

	return server
}

// RunStdio serves MCP over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.MCP().Run(ctx, &mcpsdk.StdioTransport{})
}

// HTTPHandler serves MCP over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	server := s.MCP()
	return mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return server
	}, nil)
}
