package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/launchtimer/internal/monitoring"
	"github.com/banshee-data/launchtimer/internal/testutil"
	"github.com/banshee-data/launchtimer/internal/units"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func TestFlagDefaults(t *testing.T) {
	if *speedUnits != units.MPS {
		t.Errorf("expected -speed-units default %q, got %q", units.MPS, *speedUnits)
	}
	if *displayUnits != units.KMPH {
		t.Errorf("expected -display-units default %q, got %q", units.KMPH, *displayUnits)
	}
	if *realtime {
		t.Error("expected -realtime default to be false")
	}
	if *quiet {
		t.Error("expected -quiet default to be false")
	}
}

// writeLaunchTrack writes a CSV standing start: two parked fixes, then a
// ramp of 10 km/h per 200 ms fix up to 100 km/h.
func writeLaunchTrack(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("timestamp_ms,lat,lon,speed,accuracy_m,satellites\n")
	for i, pt := range testutil.Track(52.52, 13.405, 5, 40) {
		kmh := 0.0
		if i >= 2 {
			kmh = min(float64(i-1)*10, 100)
		}
		fmt.Fprintf(&b, "%d,%.8f,%.8f,%.3f,3.0,10\n", i*200, pt[0], pt[1], kmh)
	}
	path := filepath.Join(dir, "launch.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func TestRun_ReplaysTrack(t *testing.T) {
	dir := t.TempDir()
	track := writeLaunchTrack(t, dir)
	cfgPath := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"thresholds_kmh": [20, 40, 300]}`), 0644))

	var out bytes.Buffer
	err := run(context.Background(), options{
		input:        track,
		configFile:   cfgPath,
		speedUnits:   units.KMPH,
		displayUnits: units.KMPH,
	}, &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "running")
	assert.Contains(t, got, "fixes: 41 accepted, 0 rejected")
	assert.Contains(t, got, "splits: 2/3 reached")
	assert.Contains(t, got, "0 → 20 km/h")
	assert.Contains(t, got, "0 → 40 km/h")
	assert.Contains(t, got, "0 → 300 km/h  —")
	assert.NotContains(t, got, "0 → 60 km/h")
}

func TestRun_QuietPrintsOnlySummary(t *testing.T) {
	track := writeLaunchTrack(t, t.TempDir())

	var out bytes.Buffer
	err := run(context.Background(), options{
		input:        track,
		format:       "csv",
		speedUnits:   units.KMPH,
		displayUnits: units.MPH,
		quiet:        true,
	}, &out)
	require.NoError(t, err)

	got := out.String()
	assert.NotContains(t, got, "running")
	assert.Contains(t, got, " mph")
	assert.Contains(t, got, "0 → 200 km/h")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	track := writeLaunchTrack(t, dir)

	tests := []struct {
		name string
		opts options
	}{
		{"bad display units", options{input: track, speedUnits: units.MPS, displayUnits: "furlongs"}},
		{"bad speed units", options{input: track, speedUnits: "knots", displayUnits: units.KMPH}},
		{"missing config", options{input: track, configFile: filepath.Join(dir, "nope.json"), speedUnits: units.MPS, displayUnits: units.KMPH}},
		{"unknown extension", options{input: filepath.Join(dir, "track.gpx"), speedUnits: units.MPS, displayUnits: units.KMPH}},
		{"unknown format", options{input: track, format: "xml", speedUnits: units.MPS, displayUnits: units.KMPH}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(context.Background(), tt.opts, &out))
		})
	}
}

func TestRun_CancelledStillSummarises(t *testing.T) {
	track := writeLaunchTrack(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, options{input: track, speedUnits: units.KMPH, displayUnits: units.KMPH}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "fixes: 0 accepted")
	assert.Contains(t, out.String(), "splits: 0/9 reached")
}
