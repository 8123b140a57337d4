package engine

import (
	"fmt"

	"github.com/banshee-data/launchtimer/internal/config"
	"github.com/banshee-data/launchtimer/internal/filter"
	"github.com/banshee-data/launchtimer/internal/splits"
)

// Config holds the static engine parameters. It is fixed for the lifetime
// of an Engine.
type Config struct {
	Alpha         float64   // Smoothing coefficient, clamped to [0.05, 0.9]
	StopKmh       float64   // At or below this while armed the vehicle reads as parked
	MovingKmh     float64   // At or above this while armed the run launches
	ThresholdsKmh []float64 // Split targets, strictly increasing

	// AccumulateBeforeStart counts every leg from the first fix. When false,
	// only legs ending on a fix processed while running count, starting with
	// the launch fix itself.
	AccumulateBeforeStart bool
}

// DefaultConfig returns the built-in defaults (alpha 0.25, 1/3 km/h
// hysteresis, 40..200 km/h splits).
func DefaultConfig() Config {
	return ConfigFromTuning(config.EmptyTuningConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		Alpha:                 cfg.GetSmoothingAlpha(),
		StopKmh:               cfg.GetStopKmh(),
		MovingKmh:             cfg.GetMovingKmh(),
		ThresholdsKmh:         cfg.GetThresholdsKmh(),
		AccumulateBeforeStart: cfg.GetAccumulateBeforeStart(),
	}
}

// Validate checks the hysteresis gap and the threshold list.
func (c Config) Validate() error {
	if !(c.StopKmh >= 0) {
		return fmt.Errorf("stop speed must be non-negative, got %f", c.StopKmh)
	}
	if !(c.MovingKmh > c.StopKmh) {
		return fmt.Errorf("moving speed (%f) must be greater than stop speed (%f)", c.MovingKmh, c.StopKmh)
	}
	return splits.ValidateThresholds(c.ThresholdsKmh)
}

func (c Config) clone() Config {
	out := c
	out.Alpha = filter.ClampAlpha(c.Alpha)
	out.ThresholdsKmh = append([]float64(nil), c.ThresholdsKmh...)
	return out
}
