package httpserver

import "ccviewer/internal/projects"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Clients int    `json:"wsClients"`
}

// ProjectsResponse lists the projects of the archive.
type ProjectsResponse struct {
	Projects []projects.ProjectSummary `json:"projects"`
}

// SessionsResponse lists the main sessions of one project.
type SessionsResponse struct {
	ProjectID string                    `json:"projectId"`
	Sessions  []projects.SessionSummary `json:"sessions"`
}
