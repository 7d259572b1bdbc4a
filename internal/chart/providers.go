package chart

import (
	"fmt"
	"sort"

	sm "github.com/flopp/go-staticmaps"

	"fr24export/internal/fr24"
)

// Each background name maps to one tile provider. Providers differ in style
// and API but share the one capability the renderer needs: given a bounding
// box, supply raster tiles to composite under the path.
var tileProviders = map[string]func() *sm.TileProvider{
	"carto-light": sm.NewTileProviderCartoLight,
	"carto-dark":  sm.NewTileProviderCartoDark,
	"osm":         sm.NewTileProviderOpenStreetMaps,
	"satellite":   sm.NewTileProviderArcgisWorldImagery,
}

// DefaultBackground mirrors the light CartoDB basemap the exports have
// always used.
const DefaultBackground = "carto-light"

// BackgroundNames lists the accepted background values, sorted for stable
// help text and error messages.
func BackgroundNames() []string {
	names := make([]string, 0, len(tileProviders))
	for name := range tileProviders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseBackground validates a caller-supplied background name. Empty selects
// the default. This is the single place background names are checked, so
// callers can reject bad input before any artifact work starts.
func ParseBackground(name string) (string, error) {
	if name == "" {
		return DefaultBackground, nil
	}
	if _, ok := tileProviders[name]; !ok {
		return "", &fr24.ValidationError{
			Field:   "background",
			Message: fmt.Sprintf("%q is not one of %v", name, BackgroundNames()),
		}
	}
	return name, nil
}

// tileProvider resolves a background name to its provider.
func tileProvider(name string) (*sm.TileProvider, error) {
	name, err := ParseBackground(name)
	if err != nil {
		return nil, err
	}
	return tileProviders[name](), nil
}
