package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"fr24export/internal/fr24"
)

const tracksPayload = `[
	{
		"fr24_id": "39c27a2a",
		"tracks": [
			{"timestamp": "2025-08-02T14:31:00Z", "lat": 37.63, "lon": -122.40,
			 "alt": 1200, "gspeed": 180, "vspeed": 1520, "track": 281,
			 "squawk": "3721", "callsign": "UAL123", "source": "ADSB"},
			{"timestamp": "2025-08-02T14:30:00Z", "lat": 37.62, "lon": -122.38,
			 "alt": null, "gspeed": 20, "vspeed": null, "track": 280,
			 "squawk": "3721", "callsign": "UAL123", "source": "ADSB"},
			{"timestamp": "2025-08-02T14:32:00Z", "lat": 37.65, "lon": -122.44,
			 "alt": 3400, "gspeed": 240, "vspeed": 2100, "track": 283,
			 "squawk": "3721", "callsign": "UAL123", "source": "ADSB"}
		]
	}
]`

func bundleTestClient(serverURL string) *fr24.Client {
	c := fr24.NewClient("test-token")
	c.BaseURL = serverURL
	c.Limiter = rate.NewLimiter(rate.Inf, 1)
	retry := fr24.DefaultRetryConfig()
	retry.InitialDelay = time.Millisecond
	c.Retry = retry
	return c
}

func TestBundleWritesAllDataArtifacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flight-tracks", r.URL.Path)
		w.Write([]byte(tracksPayload))
	}))
	defer server.Close()

	dir := t.TempDir()
	bundle, err := Bundle(context.Background(), bundleTestClient(server.URL), "39c27a2a", nil, Options{
		Timezone:  "America/New_York",
		OutputDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, dir, bundle.OutputDir)

	// The data artifacts are mandatory; charts may be missing when no tile
	// provider is reachable, which is a degradation, not a failure.
	for _, name := range []string{FileCSV, FileGeoJSONPoints, FileGeoJSONLine, FileKML, FileToplines} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "missing artifact %s", name)
		assert.Greater(t, info.Size(), int64(0))
	}

	// all artifacts come from the same normalized set: sorted, zone applied
	require.Len(t, bundle.Track.Points, 3)
	assert.Equal(t, "-04:00", bundle.Track.Points[0].Timestamp.Format("-07:00"))
	assert.True(t, bundle.Track.Points[0].Timestamp.Before(bundle.Track.Points[1].Timestamp))
}

func TestBundleRejectsBadOptions(t *testing.T) {
	c := fr24.NewClient("token")

	_, err := Bundle(context.Background(), c, "39c27a2a", nil, Options{Orientation: "diagonal"})
	var valErr *fr24.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "orientation", valErr.Field)

	// A bad background fails the bundle up front instead of degrading into a
	// missing map.png.
	_, err = Bundle(context.Background(), c, "39c27a2a", nil, Options{Background: "bogus"})
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "background", valErr.Field)
}

func TestBundleAllIsolatesFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("flight_id") == "bad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(tracksPayload))
	}))
	defer server.Close()

	dir := t.TempDir()
	bundles, err := BundleAll(context.Background(), bundleTestClient(server.URL),
		[]string{"bad", "39c27a2a"}, dir, Options{})
	require.NoError(t, err, "one failing flight must not sink the batch")
	require.Len(t, bundles, 1)
	assert.Equal(t, "39c27a2a", bundles[0].Track.FlightID)
}

func TestBundleAllFailsWhenEverythingFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := BundleAll(context.Background(), bundleTestClient(server.URL),
		[]string{"a", "b"}, t.TempDir(), Options{})
	require.Error(t, err)
}
