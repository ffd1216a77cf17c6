package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleStats handles GET /api/stats?period=7
func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Overall(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondLookupError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// handleProjectStats handles GET /api/projects/{projectID}/stats?period=7
func (s *HTTPServer) handleProjectStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Project(r.Context(), chi.URLParam(r, "projectID"), r.URL.Query().Get("period"))
	if err != nil {
		respondLookupError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
