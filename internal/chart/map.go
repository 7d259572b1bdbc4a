package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	sm "github.com/flopp/go-staticmaps"
	"github.com/fogleman/gg"
	"github.com/golang/geo/s2"

	"fr24export/internal/models"
)

var (
	pathColor  = color.RGBA{R: 0x1f, G: 0x4f, B: 0xc8, A: 0xff}
	startColor = color.RGBA{R: 0x2a, G: 0x9d, B: 0x3a, A: 0xff}
	endColor   = color.RGBA{R: 0xc0, G: 0x26, B: 0x26, A: 0xff}
)

// RenderMap draws the flight path over a background tile layer and writes a
// PNG. A tile provider that cannot be reached degrades to a path-only
// rendering over a plain background instead of failing the export.
func RenderMap(ts *models.TrackSet, background string, orientation Orientation, path string) error {
	if len(ts.Points) < 2 {
		return fmt.Errorf("map needs at least 2 points, have %d", len(ts.Points))
	}

	bounds := ComputeBounds(ts.Points)
	if orientation == OrientationAuto {
		orientation = AutoOrientation(bounds)
	}
	width, height := Dimensions(orientation)

	provider, err := tileProvider(background)
	if err != nil {
		return err
	}

	positions := make([]s2.LatLng, len(ts.Points))
	for i, p := range ts.Points {
		positions[i] = s2.LatLngFromDegrees(p.Lat, p.Lon)
	}

	mapCtx := sm.NewContext()
	mapCtx.SetSize(width, height)
	mapCtx.SetTileProvider(provider)
	mapCtx.AddObject(sm.NewPath(positions, pathColor, 3.0))
	mapCtx.AddObject(sm.NewMarker(positions[0], startColor, 16.0))
	mapCtx.AddObject(sm.NewMarker(positions[len(positions)-1], endColor, 16.0))

	img, err := mapCtx.Render()
	if err != nil {
		slog.Warn("Tile provider unavailable, rendering path only",
			"background", background, "error", err)
		img = renderPathOnly(ts, bounds, width, height)
	}

	return writePNG(path, img)
}

// renderPathOnly is the degraded rendering used when tiles cannot be
// fetched: the projected path on a plain background, framed by the track's
// bounding box with a margin.
func renderPathOnly(ts *models.TrackSet, bounds BBox, width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0.96, 0.96, 0.94)
	dc.Clear()

	project := projector(bounds, width, height)

	dc.SetColor(pathColor)
	dc.SetLineWidth(3)
	for i, p := range ts.Points {
		x, y := project(p.Lat, p.Lon)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	first := ts.Points[0]
	last := ts.Points[len(ts.Points)-1]
	x, y := project(first.Lat, first.Lon)
	dc.SetColor(startColor)
	dc.DrawCircle(x, y, 8)
	dc.Fill()
	x, y = project(last.Lat, last.Lon)
	dc.SetColor(endColor)
	dc.DrawCircle(x, y, 8)
	dc.Fill()

	return dc.Image()
}

// projector maps lat/lon onto canvas pixels through a Web Mercator
// projection of the bounding box, preserving aspect ratio and leaving a 10%
// margin. Plotting is the only place any projection happens.
func projector(bounds BBox, width, height int) func(lat, lon float64) (float64, float64) {
	minX, minY := mercator(bounds.MaxLat, bounds.MinLon)
	maxX, maxY := mercator(bounds.MinLat, bounds.MaxLon)

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1e-9
	}
	if spanY == 0 {
		spanY = 1e-9
	}

	const margin = 0.1
	usableW := float64(width) * (1 - 2*margin)
	usableH := float64(height) * (1 - 2*margin)
	scale := math.Min(usableW/spanX, usableH/spanY)

	offX := (float64(width) - spanX*scale) / 2
	offY := (float64(height) - spanY*scale) / 2

	return func(lat, lon float64) (float64, float64) {
		x, y := mercator(lat, lon)
		return offX + (x-minX)*scale, offY + (y-minY)*scale
	}
}

// mercator converts degrees to Web Mercator plane coordinates with y
// increasing southward, matching image coordinates.
func mercator(lat, lon float64) (float64, float64) {
	x := (lon + 180) / 360
	latRad := lat * math.Pi / 180
	y := (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2
	return x, y
}

// writePNG encodes through a temp file and rename so a failed render never
// leaves a truncated image behind.
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := encodePNG(tmp, img); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func encodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
