package replay

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/launchtimer/internal/engine"
)

// Stats describes a series of per-fix measurements.
type Stats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// Summary is the outcome of one replay.
type Summary struct {
	SessionID string          `json:"session_id"`
	Accepted  int             `json:"accepted"`
	Rejected  int             `json:"rejected"`
	Final     engine.Snapshot `json:"final"`
	WallTime  time.Duration   `json:"wall_time"`

	AccuracyM  Stats `json:"accuracy_m"`  // over fixes that report accuracy
	IntervalMs Stats `json:"interval_ms"` // between consecutive accepted fixes
}

// describe summarises xs. Standard deviation needs at least two values.
func describe(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 || math.IsNaN(std) {
		std = 0
	}
	return Stats{
		N:      len(sorted),
		Mean:   mean,
		StdDev: std,
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
		Max:    floats.Max(sorted),
	}
}
