package export

import (
	"encoding/json"
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"

	"fr24export/internal/models"
)

// WriteGeoJSONPoints writes one Point feature per track point, in normalized
// order. Coordinates are [lon, lat] or [lon, lat, alt] per the GeoJSON spec;
// all per-point telemetry rides in the feature properties, with JSON null for
// unknown values.
func WriteGeoJSONPoints(ts *models.TrackSet, path string) error {
	fc := geojson.NewFeatureCollection()
	for i := range ts.Points {
		p := &ts.Points[i]
		f := geojson.NewPointFeature(pointCoordinates(p))
		f.Properties = map[string]interface{}{
			"timestamp": formatTimestamp(p.Timestamp),
			"lat":       p.Lat,
			"lon":       p.Lon,
			"alt":       optionalProperty(p.Alt),
			"gspeed":    optionalProperty(p.GSpeed),
			"vspeed":    optionalProperty(p.VSpeed),
			"track":     optionalProperty(p.Track),
			"squawk":    p.Squawk,
			"callsign":  p.Callsign,
			"source":    p.Source,
		}
		fc.AddFeature(f)
	}
	return writeJSON(path, fc)
}

// WriteGeoJSONLine writes a single LineString feature connecting the points
// in normalized order. Points without coordinates are skipped rather than
// marked with a gap; normalization already guarantees coordinates, so the
// guard only matters for sets built by hand.
func WriteGeoJSONLine(ts *models.TrackSet, path string) error {
	coords := make([][]float64, 0, len(ts.Points))
	for i := range ts.Points {
		p := &ts.Points[i]
		coords = append(coords, []float64{p.Lon, p.Lat})
	}

	fc := geojson.NewFeatureCollection()
	line := geojson.NewLineStringFeature(coords)
	line.Properties = map[string]interface{}{
		"flight_id": ts.FlightID,
	}
	fc.AddFeature(line)
	return writeJSON(path, fc)
}

// pointCoordinates builds the [lon, lat(, alt)] tuple for one point.
func pointCoordinates(p *models.TrackPoint) []float64 {
	if p.Alt != nil {
		return []float64{p.Lon, p.Lat, *p.Alt}
	}
	return []float64{p.Lon, p.Lat}
}

func optionalProperty(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func writeJSON(path string, v interface{}) error {
	return atomicWrite(path, func(w io.Writer) error {
		enc, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", path, err)
		}
		_, err = w.Write(append(enc, '\n'))
		return err
	})
}
