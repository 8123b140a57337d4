package engine

import (
	"github.com/banshee-data/launchtimer/internal/run"
	"github.com/banshee-data/launchtimer/internal/splits"
)

// Snapshot is the engine's output after one fix. It shares no memory with
// the engine: every slice and pointer is a fresh copy.
type Snapshot struct {
	SessionID   string    `json:"session_id"`
	State       run.State `json:"state"`
	TimestampMs int64     `json:"timestamp_ms"`

	RawKmh     float64 `json:"raw_kmh"`
	CurrentKmh float64 `json:"current_kmh"`
	MaxKmh     float64 `json:"max_kmh"`
	AvgKmh     float64 `json:"avg_kmh"`
	DistanceM  float64 `json:"distance_m"`
	ElapsedMs  int64   `json:"elapsed_ms"`

	Splits []splits.Entry `json:"splits"`

	FixAccuracyM *float64 `json:"fix_accuracy_m,omitempty"`
	Satellites   *int     `json:"satellites,omitempty"`

	Samples int `json:"samples"` // fixes accepted this session
	// Rejected counts fixes ignored this session as duplicate or out of
	// order when the snapshot was produced. A re-emitted snapshot keeps
	// its original count; Engine.Rejected is always current.
	Rejected int `json:"rejected"`
}

// Split returns the entry for targetKmh, if configured.
func (s Snapshot) Split(targetKmh float64) (splits.Entry, bool) {
	for _, e := range s.Splits {
		if e.TargetKmh == targetKmh {
			return e, true
		}
	}
	return splits.Entry{}, false
}

// clone deep-copies s so re-emitting a stored snapshot never aliases it.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Splits = make([]splits.Entry, len(s.Splits))
	for i, e := range s.Splits {
		out.Splits[i] = splits.Entry{TargetKmh: e.TargetKmh, ElapsedMs: copyPtr(e.ElapsedMs)}
	}
	out.FixAccuracyM = copyPtr(s.FixAccuracyM)
	out.Satellites = copyPtr(s.Satellites)
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
