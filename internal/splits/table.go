// Package splits records the first time a run reaches each speed
// threshold, measured from the run's time origin.
package splits

import (
	"errors"
	"fmt"
	"math"
)

// ErrThresholds is returned for an empty, non-positive or non-ascending
// threshold list.
var ErrThresholds = errors.New("invalid split thresholds")

// DefaultThresholdsKmh is the default 0→X target list.
var DefaultThresholdsKmh = []float64{40, 60, 80, 100, 120, 140, 160, 180, 200}

// Entry is one split. ElapsedMs is nil until the target is first reached
// and never changes afterwards until Reset.
type Entry struct {
	TargetKmh float64 `json:"target_kmh"`
	ElapsedMs *int64  `json:"elapsed_ms,omitempty"`
}

// Reached reports whether the split has been recorded.
func (e Entry) Reached() bool {
	return e.ElapsedMs != nil
}

// Table is an ordered set of splits, one per threshold, ascending.
type Table struct {
	entries []Entry
}

// New builds a Table for the given thresholds.
func New(thresholdsKmh []float64) (*Table, error) {
	if err := ValidateThresholds(thresholdsKmh); err != nil {
		return nil, err
	}
	entries := make([]Entry, len(thresholdsKmh))
	for i, target := range thresholdsKmh {
		entries[i] = Entry{TargetKmh: target}
	}
	return &Table{entries: entries}, nil
}

// ValidateThresholds checks that the list is non-empty, finite, positive
// and strictly increasing.
func ValidateThresholds(thresholdsKmh []float64) error {
	if len(thresholdsKmh) == 0 {
		return fmt.Errorf("%w: at least one threshold required", ErrThresholds)
	}
	prev := 0.0
	for i, v := range thresholdsKmh {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: threshold %d must be a positive number, got %v", ErrThresholds, i, v)
		}
		if i > 0 && v <= prev {
			return fmt.Errorf("%w: thresholds must be strictly increasing, %v follows %v", ErrThresholds, v, prev)
		}
		prev = v
	}
	return nil
}

// Observe records now-t0 for every unset split whose target kmh reaches.
// It does nothing when hasT0 is false. The returned indices are the splits
// set by this call.
func (t *Table) Observe(t0 int64, hasT0 bool, nowMs int64, kmh float64) []int {
	if !hasT0 {
		return nil
	}
	var reached []int
	for i := range t.entries {
		e := &t.entries[i]
		if e.ElapsedMs != nil || kmh < e.TargetKmh {
			continue
		}
		elapsed := nowMs - t0
		e.ElapsedMs = &elapsed
		reached = append(reached, i)
	}
	return reached
}

// Reset clears every recorded split.
func (t *Table) Reset() {
	for i := range t.entries {
		t.entries[i].ElapsedMs = nil
	}
}

// Entries returns a deep copy of the table.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{TargetKmh: e.TargetKmh}
		if e.ElapsedMs != nil {
			v := *e.ElapsedMs
			out[i].ElapsedMs = &v
		}
	}
	return out
}

// Thresholds returns a copy of the configured targets.
func (t *Table) Thresholds() []float64 {
	out := make([]float64, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.TargetKmh
	}
	return out
}
