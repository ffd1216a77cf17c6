package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"ccviewer/internal/projects"
	"ccviewer/internal/stats"
)

// handleHealth handles GET /health
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: s.version}
	if s.hub != nil {
		resp.Clients = s.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, resp)
}

// respondLookupError maps domain errors to status codes: unknown project is
// 404, a bad window 400, anything else 500.
func respondLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, projects.ErrProjectNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, stats.ErrInvalidWindow):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		log.Debug().Str("path", r.URL.Path).Msg("[HTTP] request cancelled")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("[HTTP] request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
