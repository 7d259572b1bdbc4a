package fr24

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fr24export/internal/models"
)

func summaries() []models.FlightSummary {
	return []models.FlightSummary{
		{FR24ID: "aaa", Flight: "UA123", Takeoff: time.Date(2025, 8, 2, 14, 0, 0, 0, time.UTC)},
		{FR24ID: "bbb", Flight: "UA123", Takeoff: time.Date(2025, 8, 2, 2, 0, 0, 0, time.UTC)},
		{FR24ID: "ccc", Flight: "UA123", Takeoff: time.Date(2025, 8, 2, 22, 0, 0, 0, time.UTC)},
	}
}

func TestSelectCandidate(t *testing.T) {
	tests := []struct {
		name       string
		candidates []models.FlightSummary
		selector   string
		wantID     string
		wantErr    bool
	}{
		{"latest picks newest takeoff", summaries(), "latest", "ccc", false},
		{"earliest picks oldest takeoff", summaries(), "earliest", "bbb", false},
		{"index picks positionally", summaries(), "1", "bbb", false},
		{"single candidate needs no selector", summaries()[:1], "", "aaa", false},
		{"ambiguous without selector", summaries(), "", "", true},
		{"index out of range", summaries(), "7", "", true},
		{"garbage selector", summaries(), "newest", "", true},
		{"no candidates", nil, "latest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectCandidate(tt.candidates, tt.selector)
			if tt.wantErr {
				var valErr *ValidationError
				assert.ErrorAs(t, err, &valErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.FR24ID)
		})
	}
}

func TestResolveFlight(t *testing.T) {
	// 3 candidates behind a page size of 2: resolution must paginate
	all := []models.RawFlightSummary{
		{FR24ID: "aaa", Flight: "UA123", OrigICAO: "KSFO", DestICAO: "KJFK",
			Reg: "N12345", Type: "B738", DatetimeTakeoff: "2025-08-02T14:00:00Z", FlightEnded: true},
		{FR24ID: "bbb", Flight: "UA123", OrigICAO: "KSFO", DestICAO: "KJFK",
			DatetimeTakeoff: "2025-08-02T02:00:00Z", FlightEnded: true},
		{FR24ID: "ccc", Flight: "UA123", OrigICAO: "KSFO", DestICAO: "KJFK",
			DatetimeTakeoff: "2025-08-02T22:00:00Z"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flight-summary/full", r.URL.Path)
		assert.Equal(t, "UA123", r.URL.Query().Get("flights"))

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		var page []models.RawFlightSummary
		if offset < len(all) {
			page = all[offset:end]
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": page})
	}))
	defer server.Close()

	c := testClient(server.URL)
	candidates, incomplete, err := c.ResolveFlight(context.Background(), "UA123", "2025-08-02", 2, 10)
	require.NoError(t, err)
	assert.False(t, incomplete)
	require.Len(t, candidates, 3)

	assert.Equal(t, "aaa", candidates[0].FR24ID)
	assert.Equal(t, "KSFO", candidates[0].Origin)
	assert.Equal(t, "KJFK", candidates[0].Destination)
	assert.Equal(t, "B738", candidates[0].AircraftType)
	assert.Equal(t, "N12345", candidates[0].Registration)
	assert.True(t, candidates[0].Ended)
	assert.Equal(t, time.Date(2025, 8, 2, 14, 0, 0, 0, time.UTC), candidates[0].Takeoff)
	assert.True(t, candidates[2].Landed.IsZero())
}

func TestResolveFlightNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, _, err := c.ResolveFlight(context.Background(), "UA999", "2025-08-02", 10, 10)
	var nfErr *NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestResolveFlightBadDate(t *testing.T) {
	c := NewClient("token")
	_, _, err := c.ResolveFlight(context.Background(), "UA123", "not-a-date", 10, 10)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "date", valErr.Field)
}
