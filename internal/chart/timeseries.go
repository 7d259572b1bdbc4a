package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"

	"fr24export/internal/models"
	"fr24export/internal/track"
)

// Time-series charts render at a fixed 16:9 high resolution regardless of
// the map orientation.
const (
	seriesWidth  = 1600
	seriesHeight = 900
)

// RenderSpeedChart writes the ground-speed time series for one track.
// headline is the flight identification for the title; nil speed samples are
// skipped so ground gaps stay visually distinct from a zero reading.
func RenderSpeedChart(ts *models.TrackSet, headline, path string) error {
	return renderSeries(ts, headline, "Ground speed (knots)", path,
		func(p *models.TrackPoint) *float64 { return p.GSpeed },
		func(v float64) string { return humanize.Commaf(v) })
}

// RenderAltitudeChart writes the altitude time series for one track.
// Altitude labels carry thousands separators.
func RenderAltitudeChart(ts *models.TrackSet, headline, path string) error {
	return renderSeries(ts, headline, "Altitude (feet)", path,
		func(p *models.TrackPoint) *float64 { return p.Alt },
		func(v float64) string { return humanize.Commaf(v) })
}

func renderSeries(ts *models.TrackSet, headline, yLabel, path string, value func(*models.TrackPoint) *float64, formatY func(float64) string) error {
	xs := make([]time.Time, 0, len(ts.Points))
	ys := make([]float64, 0, len(ts.Points))
	for i := range ts.Points {
		p := &ts.Points[i]
		v := value(p)
		if v == nil {
			continue
		}
		xs = append(xs, p.Timestamp)
		ys = append(ys, *v)
	}
	if len(xs) < 2 {
		return fmt.Errorf("%s chart needs at least 2 samples, have %d", yLabel, len(xs))
	}

	graph := chart.Chart{
		Title:  Title(headline, ts),
		Width:  seriesWidth,
		Height: seriesHeight,
		XAxis: chart.XAxis{
			Ticks: timeTicks(ts.Start(), ts.End(), TickInterval(ts.Duration())),
		},
		YAxis: chart.YAxis{
			Name: yLabel,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return formatY(f)
				}
				return fmt.Sprintf("%v", v)
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    yLabel,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2.0,
				},
			},
		},
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := renderTo(graph, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func renderTo(graph chart.Chart, w io.Writer) error {
	return graph.Render(chart.PNG, w)
}

// Title builds the chart title: the flight headline, with the timezone
// abbreviation appended only when a timezone conversion was applied.
func Title(headline string, ts *models.TrackSet) string {
	if ts.Zone == nil {
		return headline
	}
	return fmt.Sprintf("%s (%s)", headline, track.ZoneAbbrev(ts.Start()))
}

// timeTicks places ticks at clean interval boundaries between start and end,
// labelled on a 12-hour clock. The first and last instants always get a
// tick so the axis covers the full flight. Boundaries follow start's local
// wall clock, so zones with fractional UTC offsets still tick on local
// hour and half-hour marks.
func timeTicks(start, end time.Time, interval time.Duration) []chart.Tick {
	ticks := []chart.Tick{{
		Value: chart.TimeToFloat64(start),
		Label: ClockLabel(start),
	}}
	for t := firstTickAfter(start, interval); t.Before(end); t = t.Add(interval) {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(t),
			Label: ClockLabel(t),
		})
	}
	ticks = append(ticks, chart.Tick{
		Value: chart.TimeToFloat64(end),
		Label: ClockLabel(end),
	})
	return ticks
}

// firstTickAfter rounds start up to the next interval boundary on its own
// wall clock.
func firstTickAfter(start time.Time, interval time.Duration) time.Time {
	step := int(interval / time.Minute)
	next := (start.Hour()*60+start.Minute())/step*step + step
	return time.Date(start.Year(), start.Month(), start.Day(), 0, next, 0, 0, start.Location())
}

// ClockLabel renders an axis label on the 12-hour clock, e.g. "10:38 am".
func ClockLabel(t time.Time) string {
	return strings.ToLower(t.Format("3:04 PM"))
}
