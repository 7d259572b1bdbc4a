package export

import (
	"io"

	kml "github.com/twpayne/go-kml/v2"

	"fr24export/internal/models"
)

// WriteKML writes the track as a single LineString placemark. Coordinate
// tuples are lon,lat,alt in normalized point order, matching the GeoJSON
// exports index for index; unknown altitude is written as 0 since the KML
// coordinate triple has no null.
func WriteKML(ts *models.TrackSet, path string) error {
	coords := make([]kml.Coordinate, 0, len(ts.Points))
	for i := range ts.Points {
		p := &ts.Points[i]
		alt := 0.0
		if p.Alt != nil {
			alt = *p.Alt
		}
		coords = append(coords, kml.Coordinate{Lon: p.Lon, Lat: p.Lat, Alt: alt})
	}

	doc := kml.KML(
		kml.Document(
			kml.Name("Flight "+ts.FlightID),
			kml.Placemark(
				kml.Name("Track"),
				kml.LineString(
					kml.Extrude(false),
					kml.Tessellate(true),
					kml.AltitudeMode(kml.AltitudeModeAbsolute),
					kml.Coordinates(coords...),
				),
			),
		),
	)

	return atomicWrite(path, func(w io.Writer) error {
		return doc.WriteIndent(w, "", "  ")
	})
}
