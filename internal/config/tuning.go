package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/launchtimer/internal/splits"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for the measurement engine
// and the replay host. Every field is optional; the Get* methods supply the
// default for anything left unset.
type TuningConfig struct {
	// Speed filter
	SmoothingAlpha *float64 `json:"smoothing_alpha,omitempty"` // clamped to [0.05, 0.9] by the filter

	// Launch hysteresis (km/h)
	StopKmh   *float64 `json:"stop_kmh,omitempty"`
	MovingKmh *float64 `json:"moving_kmh,omitempty"`

	// Split targets (km/h), strictly increasing
	ThresholdsKmh []float64 `json:"thresholds_kmh,omitempty"`

	// Distance policy
	AccumulateBeforeStart *bool `json:"accumulate_before_start,omitempty"`

	// Replay params
	RealtimeSpeedup *float64 `json:"realtime_speedup,omitempty"`
	MaxReplayGap    *string  `json:"max_replay_gap,omitempty"` // duration string like "5s"
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/launchtimer/
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Alpha is only
// checked for NaN since out-of-range values are clamped downstream.
func (c *TuningConfig) Validate() error {
	if c.SmoothingAlpha != nil && math.IsNaN(*c.SmoothingAlpha) {
		return fmt.Errorf("smoothing_alpha must be a number")
	}

	if c.StopKmh != nil && (*c.StopKmh < 0 || math.IsNaN(*c.StopKmh)) {
		return fmt.Errorf("stop_kmh must be non-negative, got %f", *c.StopKmh)
	}
	if c.MovingKmh != nil && math.IsNaN(*c.MovingKmh) {
		return fmt.Errorf("moving_kmh must be a number")
	}
	// Compare effective values so a partial config cannot invert the dead zone.
	if stop, moving := c.GetStopKmh(), c.GetMovingKmh(); moving <= stop {
		return fmt.Errorf("moving_kmh (%f) must be greater than stop_kmh (%f)", moving, stop)
	}

	if c.ThresholdsKmh != nil {
		if err := splits.ValidateThresholds(c.ThresholdsKmh); err != nil {
			return fmt.Errorf("thresholds_kmh: %w", err)
		}
	}

	if c.RealtimeSpeedup != nil && !(*c.RealtimeSpeedup > 0) {
		return fmt.Errorf("realtime_speedup must be positive, got %f", *c.RealtimeSpeedup)
	}

	if c.MaxReplayGap != nil && *c.MaxReplayGap != "" {
		d, err := time.ParseDuration(*c.MaxReplayGap)
		if err != nil {
			return fmt.Errorf("invalid max_replay_gap '%s': %w", *c.MaxReplayGap, err)
		}
		if d < 0 {
			return fmt.Errorf("max_replay_gap must be non-negative, got %s", d)
		}
	}

	return nil
}

// GetSmoothingAlpha returns the smoothing_alpha value or the default.
func (c *TuningConfig) GetSmoothingAlpha() float64 {
	if c.SmoothingAlpha == nil {
		return 0.25
	}
	return *c.SmoothingAlpha
}

// GetStopKmh returns the stop_kmh value or the default.
func (c *TuningConfig) GetStopKmh() float64 {
	if c.StopKmh == nil {
		return 1.0
	}
	return *c.StopKmh
}

// GetMovingKmh returns the moving_kmh value or the default.
func (c *TuningConfig) GetMovingKmh() float64 {
	if c.MovingKmh == nil {
		return 3.0
	}
	return *c.MovingKmh
}

// GetThresholdsKmh returns a copy of thresholds_kmh or the default list.
func (c *TuningConfig) GetThresholdsKmh() []float64 {
	src := c.ThresholdsKmh
	if src == nil {
		src = splits.DefaultThresholdsKmh
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// GetAccumulateBeforeStart returns the accumulate_before_start value or the default.
func (c *TuningConfig) GetAccumulateBeforeStart() bool {
	if c.AccumulateBeforeStart == nil {
		return false // default: distance counts from launch
	}
	return *c.AccumulateBeforeStart
}

// GetRealtimeSpeedup returns the realtime_speedup value or the default.
func (c *TuningConfig) GetRealtimeSpeedup() float64 {
	if c.RealtimeSpeedup == nil {
		return 1.0
	}
	return *c.RealtimeSpeedup
}

// GetMaxReplayGap parses and returns the MaxReplayGap as a time.Duration.
func (c *TuningConfig) GetMaxReplayGap() time.Duration {
	if c.MaxReplayGap == nil || *c.MaxReplayGap == "" {
		return 5 * time.Second // default
	}
	d, err := time.ParseDuration(*c.MaxReplayGap)
	if err != nil {
		return 5 * time.Second // default on parse error
	}
	return d
}
