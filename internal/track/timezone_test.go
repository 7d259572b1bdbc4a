package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fr24export/internal/fr24"
	"fr24export/internal/models"
)

func utcSet(times ...time.Time) *models.TrackSet {
	ts := &models.TrackSet{FlightID: "f1"}
	for i, t := range times {
		ts.Points = append(ts.Points, models.TrackPoint{
			Timestamp: t,
			Lat:       40.0 + float64(i)*0.1,
			Lon:       -74.0,
		})
	}
	return ts
}

func TestConvertTimezoneAcrossDSTBoundary(t *testing.T) {
	// US spring-forward 2025: 2025-03-09 07:00 UTC, clocks jump 02:00 EST
	// to 03:00 EDT. A flight straddling the transition must carry both
	// offsets, one per leg.
	before := time.Date(2025, 3, 9, 6, 30, 0, 0, time.UTC)
	after := time.Date(2025, 3, 9, 7, 30, 0, 0, time.UTC)

	converted, err := ConvertTimezone(utcSet(before, after), "America/New_York")
	require.NoError(t, err)
	require.Len(t, converted.Points, 2)

	assert.Equal(t, "-05:00", converted.Points[0].Timestamp.Format("-07:00"))
	assert.Equal(t, "-04:00", converted.Points[1].Timestamp.Format("-07:00"))

	// rewriting presentation never moves the instant
	assert.True(t, converted.Points[0].Timestamp.Equal(before))
	assert.True(t, converted.Points[1].Timestamp.Equal(after))
}

func TestConvertTimezoneDoesNotMutateInput(t *testing.T) {
	orig := utcSet(time.Date(2025, 8, 2, 14, 38, 0, 0, time.UTC))
	converted, err := ConvertTimezone(orig, "America/New_York")
	require.NoError(t, err)

	assert.Nil(t, orig.Zone)
	assert.Equal(t, time.UTC, orig.Points[0].Timestamp.Location())
	assert.NotNil(t, converted.Zone)
	assert.Equal(t, "America/New_York", converted.Zone.String())
}

func TestConvertTimezoneUnknownZone(t *testing.T) {
	_, err := ConvertTimezone(utcSet(time.Now()), "Mars/Olympus_Mons")
	var valErr *fr24.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "timezone", valErr.Field)
}

func TestHumanTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{
			name: "morning eastern daylight time",
			t:    time.Date(2025, 8, 2, 10, 38, 0, 0, loc),
			want: "August 2, 2025, at 10:38 a.m. ET",
		},
		{
			name: "afternoon eastern standard time",
			t:    time.Date(2025, 12, 24, 16, 5, 0, 0, loc),
			want: "December 24, 2025, at 4:05 p.m. ET",
		},
		{
			name: "utc stays utc",
			t:    time.Date(2025, 8, 2, 0, 1, 0, 0, time.UTC),
			want: "August 2, 2025, at 12:01 a.m. UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTime(tt.t))
		})
	}
}

func TestZoneAbbrevCollapsesUSPairs(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	la, _ := time.LoadLocation("America/Los_Angeles")
	chi, _ := time.LoadLocation("America/Chicago")

	summer := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	winter := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "ET", ZoneAbbrev(summer.In(ny)))
	assert.Equal(t, "ET", ZoneAbbrev(winter.In(ny)))
	assert.Equal(t, "PT", ZoneAbbrev(summer.In(la)))
	assert.Equal(t, "CT", ZoneAbbrev(winter.In(chi)))
	assert.Equal(t, "UTC", ZoneAbbrev(summer))
}
