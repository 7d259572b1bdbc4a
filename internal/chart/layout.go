package chart

import (
	"fmt"
	"time"

	"fr24export/internal/fr24"
	"fr24export/internal/models"
)

// BBox is the minimal rectangle covering all points of a track, used for map
// framing and orientation selection. Longitudes are taken as-is: a track
// crossing the antimeridian produces a box spanning the raw min/max values
// with no wrap-around correction.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// ComputeBounds returns the bounding box of a point sequence.
func ComputeBounds(points []models.TrackPoint) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	b := BBox{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}
	return b
}

// Orientation selects the map canvas shape.
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal" // 16:9
	OrientationVertical   Orientation = "vertical"   // 9:16
	OrientationAuto       Orientation = "auto"
)

// ParseOrientation validates a caller-supplied orientation string. Empty
// means auto.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case "":
		return OrientationAuto, nil
	case OrientationHorizontal, OrientationVertical, OrientationAuto:
		return Orientation(s), nil
	default:
		return "", &fr24.ValidationError{
			Field:   "orientation",
			Message: fmt.Sprintf("%q is not horizontal, vertical or auto", s),
		}
	}
}

// AutoOrientation picks the canvas shape that better matches the bounding
// box: wider-than-tall tracks get the horizontal canvas, taller-than-wide
// the vertical one. Pure function of the box.
func AutoOrientation(b BBox) Orientation {
	if b.MaxLon-b.MinLon >= b.MaxLat-b.MinLat {
		return OrientationHorizontal
	}
	return OrientationVertical
}

// Dimensions returns the fixed high-resolution canvas size for an
// orientation. Auto must be resolved before calling.
func Dimensions(o Orientation) (width, height int) {
	if o == OrientationVertical {
		return 1080, 1920
	}
	return 1920, 1080
}

// shortFlightThreshold separates 30-minute from 1-hour tick spacing on the
// time-series charts.
const shortFlightThreshold = 3 * time.Hour

// TickInterval picks the x-axis tick spacing from flight duration. Pure
// function of the duration.
func TickInterval(d time.Duration) time.Duration {
	if d <= shortFlightThreshold {
		return 30 * time.Minute
	}
	return time.Hour
}
