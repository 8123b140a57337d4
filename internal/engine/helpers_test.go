package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/launchtimer/internal/testutil"
	"github.com/banshee-data/launchtimer/internal/units"
)

const (
	baseLat = 52.5200
	baseLon = 13.4050
)

func newEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func fixKmh(t *testing.T, lat, lon float64, ts int64, kmh float64, opts ...SampleOption) Sample {
	t.Helper()
	opts = append([]SampleOption{WithSpeed(units.KmhToMPS(kmh))}, opts...)
	s, err := NewSample(lat, lon, ts, opts...)
	require.NoError(t, err)
	return s
}

func ingest(t *testing.T, e *Engine, s Sample) Snapshot {
	t.Helper()
	snap, err := e.Ingest(s)
	require.NoError(t, err)
	return snap
}

// rawFor returns the raw input that moves a filter with coefficient alpha
// from prev to target in one step.
func rawFor(alpha, prev, target float64) float64 {
	return (target - (1-alpha)*prev) / alpha
}

// northOf returns the point meters north of lat/lon.
func northOf(lat, lon, meters float64) (float64, float64) {
	return testutil.OffsetNorth(lat, lon, meters)
}
