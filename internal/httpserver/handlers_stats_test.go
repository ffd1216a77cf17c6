package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccviewer/internal/stats"
)

func TestStatsOverall(t *testing.T) {
	server := newTestServer(t, []string{"test-token"})

	tests := []struct {
		name       string
		query      string
		wantPeriod string
		wantDays   int
	}{
		{"default period", "", "7", 7},
		{"30 days", "?period=30", "30", 30},
		{"all", "?period=all", "all", 3},
		{"custom", "?period=3", "3", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, server, "/api/stats"+tt.query, "test-token")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var report stats.Report
			require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
			assert.Equal(t, tt.wantPeriod, report.Overview.Period)
			assert.Len(t, report.Daily, tt.wantDays)
			assert.Equal(t, int64(150), report.Overview.TokenUsage.TotalTokens)
			assert.Len(t, report.Trends.ByHour, 24)
		})
	}
}

func TestStatsInvalidPeriod(t *testing.T) {
	server := newTestServer(t, nil)

	w := get(t, server, "/api/stats?period=fortnight", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "invalid window")
}

func TestProjectStats(t *testing.T) {
	server := newTestServer(t, nil)

	w := get(t, server, "/api/projects/-home-me-api/stats?period=7", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report stats.Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	require.Len(t, report.ByProject, 1)
	assert.Equal(t, "-home-me-api", report.ByProject[0].ProjectID)
	assert.Equal(t, 1, report.ByProject[0].SessionCount)

	w = get(t, server, "/api/projects/missing/stats", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(t, server, "/api/projects/-home-me-api/stats?period=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
