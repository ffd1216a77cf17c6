package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListProjects handles GET /api/projects
func (s *HTTPServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListProjects(r.Context())
	if err != nil {
		respondLookupError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ProjectsResponse{Projects: list})
}

// handleListSessions handles GET /api/projects/{projectID}/sessions
func (s *HTTPServer) handleListSessions(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	sessions, err := s.store.ListSessions(r.Context(), projectID)
	if err != nil {
		respondLookupError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, SessionsResponse{ProjectID: projectID, Sessions: sessions})
}
