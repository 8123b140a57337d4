package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ClampsAlpha(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		want  float64
	}{
		{"zero clamps to min", 0.0, 0.05},
		{"negative clamps to min", -3, 0.05},
		{"large clamps to max", 5.0, 0.9},
		{"one clamps to max", 1.0, 0.9},
		{"in range kept", 0.25, 0.25},
		{"lower bound kept", 0.05, 0.05},
		{"upper bound kept", 0.9, 0.9},
		{"nan falls back to default", math.NaN(), DefaultAlpha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.alpha).Alpha())
		})
	}
}

func TestNext_SeedsFromFirstValue(t *testing.T) {
	s := New(0.25)

	_, seeded := s.Value()
	assert.False(t, seeded)

	assert.Equal(t, 12.0, s.Next(12))
	y, seeded := s.Value()
	assert.True(t, seeded)
	assert.Equal(t, 12.0, y)

	// 0.25*20 + 0.75*12
	assert.InDelta(t, 14.0, s.Next(20), 1e-12)
}

func TestNext_ConvergesOnConstantInput(t *testing.T) {
	for _, alpha := range []float64{0.05, 0.1, 0.25, 0.5, 0.9} {
		s := New(alpha)
		s.Next(0)
		var y float64
		for i := 0; i < 2000; i++ {
			y = s.Next(42)
		}
		assert.InDelta(t, 42.0, y, 1e-9, "alpha=%v", alpha)
	}
}

func TestReset_Unseeds(t *testing.T) {
	s := New(0.5)
	s.Next(100)
	s.Next(50)

	s.Reset()
	_, seeded := s.Value()
	require.False(t, seeded)

	// stale value must not leak into the re-seeded filter
	assert.Equal(t, 3.0, s.Next(3))
}
