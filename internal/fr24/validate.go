package fr24

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidateDate parses a YYYY-MM-DD date and anchors it at UTC midnight.
func ValidateDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: fmt.Sprintf("%q is not YYYY-MM-DD", date)}
	}
	return t, nil
}

// ValidateBounds checks a "north,south,west,east" bounding box string in
// decimal degrees.
func ValidateBounds(bounds string) error {
	parts := strings.Split(bounds, ",")
	if len(parts) != 4 {
		return &ValidationError{Field: "bounds", Message: "want \"north,south,west,east\""}
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return &ValidationError{Field: "bounds", Message: fmt.Sprintf("%q is not a number", p)}
		}
		vals[i] = v
	}
	north, south, west, east := vals[0], vals[1], vals[2], vals[3]
	if north < -90 || north > 90 || south < -90 || south > 90 {
		return &ValidationError{Field: "bounds", Message: "latitude outside [-90, 90]"}
	}
	if west < -180 || west > 180 || east < -180 || east > 180 {
		return &ValidationError{Field: "bounds", Message: "longitude outside [-180, 180]"}
	}
	if north < south {
		return &ValidationError{Field: "bounds", Message: "north is south of south"}
	}
	return nil
}
