package splits

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elapsedOf(t *testing.T, e Entry) int64 {
	t.Helper()
	require.NotNil(t, e.ElapsedMs, "split %v not reached", e.TargetKmh)
	return *e.ElapsedMs
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name       string
		thresholds []float64
		wantErr    bool
	}{
		{"defaults", DefaultThresholdsKmh, false},
		{"single", []float64{100}, false},
		{"fractional", []float64{0.5, 1.5}, false},
		{"empty", nil, true},
		{"zero", []float64{0, 40}, true},
		{"negative", []float64{-10}, true},
		{"equal neighbours", []float64{40, 40}, true},
		{"descending", []float64{60, 40}, true},
		{"nan", []float64{40, math.NaN()}, true},
		{"inf", []float64{math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := New(tt.thresholds)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrThresholds))
				assert.Nil(t, table)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.thresholds, table.Thresholds())
			assert.Len(t, table.Entries(), len(tt.thresholds))
			for _, e := range table.Entries() {
				assert.False(t, e.Reached())
			}
		})
	}
}

func TestObserve_NoOpWithoutT0(t *testing.T) {
	table, err := New(DefaultThresholdsKmh)
	require.NoError(t, err)

	assert.Empty(t, table.Observe(0, false, 5000, 250))
	for _, e := range table.Entries() {
		assert.Nil(t, e.ElapsedMs)
	}
}

func TestObserve_SetsAllReachedTargets(t *testing.T) {
	table, err := New([]float64{40, 60, 80})
	require.NoError(t, err)

	reached := table.Observe(1000, true, 3500, 65)
	assert.Equal(t, []int{0, 1}, reached)

	entries := table.Entries()
	assert.Equal(t, int64(2500), elapsedOf(t, entries[0]))
	assert.Equal(t, int64(2500), elapsedOf(t, entries[1]))
	assert.Nil(t, entries[2].ElapsedMs)
}

func TestObserve_WriteOnce(t *testing.T) {
	table, err := New([]float64{40, 60})
	require.NoError(t, err)

	table.Observe(0, true, 2000, 41)
	// drop below, rise again, and overshoot: the 40 split stays at 2000
	table.Observe(0, true, 3000, 10)
	table.Observe(0, true, 4000, 45)
	table.Observe(0, true, 5000, 70)

	entries := table.Entries()
	assert.Equal(t, int64(2000), elapsedOf(t, entries[0]))
	assert.Equal(t, int64(5000), elapsedOf(t, entries[1]))

	assert.Empty(t, table.Observe(0, true, 6000, 200))
	assert.Equal(t, int64(2000), elapsedOf(t, table.Entries()[0]))
}

func TestObserve_MonotoneRunKeepsOrder(t *testing.T) {
	table, err := New(DefaultThresholdsKmh)
	require.NoError(t, err)

	// steady acceleration of 9 km/h per 200 ms sample
	for i := 0; i <= 30; i++ {
		now := int64(i * 200)
		table.Observe(0, true, now, float64(i)*9)
	}

	entries := table.Entries()
	var prev int64 = -1
	for _, e := range entries {
		got := elapsedOf(t, e)
		assert.GreaterOrEqual(t, got, prev, "split %v", e.TargetKmh)
		prev = got
	}
}

func TestEntries_IsACopy(t *testing.T) {
	table, err := New([]float64{40})
	require.NoError(t, err)
	table.Observe(0, true, 1000, 50)

	entries := table.Entries()
	*entries[0].ElapsedMs = 99
	entries[0].TargetKmh = 1

	fresh := table.Entries()
	assert.Equal(t, int64(1000), *fresh[0].ElapsedMs)
	assert.Equal(t, 40.0, fresh[0].TargetKmh)

	thresholds := table.Thresholds()
	thresholds[0] = 7
	assert.Equal(t, []float64{40}, table.Thresholds())
}

func TestReset(t *testing.T) {
	table, err := New([]float64{40, 60})
	require.NoError(t, err)
	table.Observe(0, true, 1000, 100)

	table.Reset()
	for _, e := range table.Entries() {
		assert.Nil(t, e.ElapsedMs)
	}

	table.Observe(500, true, 800, 45)
	assert.Equal(t, int64(300), *table.Entries()[0].ElapsedMs)
}
