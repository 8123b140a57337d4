package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/launchtimer/internal/geo"
)

// ErrInvalidSample is returned when a fix fails validation. A session is
// never built on a partially valid fix.
var ErrInvalidSample = errors.New("invalid location sample")

// Sample is one GPS fix. Optional fields are nil when the receiver did not
// report them.
type Sample struct {
	Latitude    float64  `json:"lat"`
	Longitude   float64  `json:"lon"`
	SpeedMps    *float64 `json:"speed_mps,omitempty"`
	AccuracyM   *float64 `json:"accuracy_m,omitempty"`
	Satellites  *int     `json:"satellites,omitempty"`
	TimestampMs int64    `json:"timestamp_ms"`
}

// SampleOption sets an optional field on a Sample built by NewSample.
type SampleOption func(*Sample)

// WithSpeed sets the instantaneous speed in m/s.
func WithSpeed(mps float64) SampleOption {
	return func(s *Sample) { s.SpeedMps = &mps }
}

// WithAccuracy sets the horizontal accuracy radius in metres.
func WithAccuracy(m float64) SampleOption {
	return func(s *Sample) { s.AccuracyM = &m }
}

// WithSatellites sets the number of satellites used in the fix.
func WithSatellites(n int) SampleOption {
	return func(s *Sample) { s.Satellites = &n }
}

// NewSample builds and validates a Sample.
func NewSample(lat, lon float64, timestampMs int64, opts ...SampleOption) (Sample, error) {
	s := Sample{Latitude: lat, Longitude: lon, TimestampMs: timestampMs}
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

// Validate checks coordinates and optional fields.
func (s Sample) Validate() error {
	if !geo.ValidCoordinate(s.Latitude, s.Longitude) {
		return fmt.Errorf("%w: coordinate (%v, %v) out of range", ErrInvalidSample, s.Latitude, s.Longitude)
	}
	if s.SpeedMps != nil && (math.IsNaN(*s.SpeedMps) || math.IsInf(*s.SpeedMps, 0) || *s.SpeedMps < 0) {
		return fmt.Errorf("%w: speed must be a non-negative number, got %v", ErrInvalidSample, *s.SpeedMps)
	}
	if s.AccuracyM != nil && (math.IsNaN(*s.AccuracyM) || *s.AccuracyM < 0) {
		return fmt.Errorf("%w: accuracy must be non-negative, got %v", ErrInvalidSample, *s.AccuracyM)
	}
	if s.Satellites != nil && *s.Satellites < 0 {
		return fmt.Errorf("%w: satellite count must be non-negative, got %d", ErrInvalidSample, *s.Satellites)
	}
	return nil
}

// speedOrZero treats a missing speed as stationary.
func (s Sample) speedOrZero() float64 {
	if s.SpeedMps == nil {
		return 0
	}
	return *s.SpeedMps
}
