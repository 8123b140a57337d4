// Package filter provides the first-order low-pass filter applied to raw
// GPS speed before any launch or split logic sees it.
package filter

import "math"

// Alpha bounds. Values outside the range are clamped, not rejected.
const (
	MinAlpha     = 0.05
	MaxAlpha     = 0.9
	DefaultAlpha = 0.25
)

// Smoother is an exponential smoothing filter. Larger alpha tracks the
// input faster and passes more noise. The zero value is not usable; call New.
type Smoother struct {
	alpha  float64
	y      float64
	seeded bool
}

// New returns an unseeded Smoother with alpha clamped to [MinAlpha, MaxAlpha].
// NaN falls back to DefaultAlpha.
func New(alpha float64) *Smoother {
	return &Smoother{alpha: ClampAlpha(alpha)}
}

// ClampAlpha applies the same clamping New does.
func ClampAlpha(alpha float64) float64 {
	if math.IsNaN(alpha) {
		return DefaultAlpha
	}
	return math.Min(MaxAlpha, math.Max(MinAlpha, alpha))
}

// Next feeds x through the filter and returns the smoothed value. The first
// call after New or Reset adopts x as-is.
func (s *Smoother) Next(x float64) float64 {
	if !s.seeded {
		s.y = x
		s.seeded = true
		return s.y
	}
	s.y = s.alpha*x + (1-s.alpha)*s.y
	return s.y
}

// Reset forgets the smoothed value so the next call to Next re-seeds.
func (s *Smoother) Reset() {
	s.y = 0
	s.seeded = false
}

// Value returns the current smoothed value and whether the filter is seeded.
func (s *Smoother) Value() (float64, bool) {
	return s.y, s.seeded
}

// Alpha returns the effective (clamped) coefficient.
func (s *Smoother) Alpha() float64 {
	return s.alpha
}
