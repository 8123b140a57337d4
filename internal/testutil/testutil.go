// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"

	"github.com/banshee-data/launchtimer/internal/geo"
)

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// OffsetNorth returns the coordinate meters due north of lat/lon along the
// meridian, so geo.DistanceMeters between the two is exactly meters.
func OffsetNorth(lat, lon, meters float64) (float64, float64) {
	return lat + meters/geo.EarthRadiusMeters*180/math.Pi, lon
}

// Track returns n+1 coordinates spaced legMeters apart heading north from
// lat/lon, starting with the origin itself.
func Track(lat, lon, legMeters float64, n int) [][2]float64 {
	out := make([][2]float64, 0, n+1)
	out = append(out, [2]float64{lat, lon})
	for i := 0; i < n; i++ {
		lat, lon = OffsetNorth(lat, lon, legMeters)
		out = append(out, [2]float64{lat, lon})
	}
	return out
}
