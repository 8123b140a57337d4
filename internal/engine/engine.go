package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/banshee-data/launchtimer/internal/filter"
	"github.com/banshee-data/launchtimer/internal/geo"
	"github.com/banshee-data/launchtimer/internal/monitoring"
	"github.com/banshee-data/launchtimer/internal/run"
	"github.com/banshee-data/launchtimer/internal/splits"
	"github.com/banshee-data/launchtimer/internal/units"
)

const msPerHour = 3600000.0

// Engine turns a stream of fixes into speed, distance and split snapshots.
//
// An Engine is not safe for concurrent use. Exactly one caller feeds it;
// Snapshots are values and may be handed to other goroutines freely.
type Engine struct {
	cfg       Config
	sessionID string

	smoother *filter.Smoother
	machine  *run.Machine
	table    *splits.Table

	// session accumulators
	distanceM float64
	maxKmh    float64
	elapsedMs int64
	avgKmh    float64
	lastLat   float64
	lastLon   float64
	hasCoord  bool

	lastTs   int64
	hasTs    bool
	samples  int
	rejected int

	last Snapshot
}

// New returns an Idle engine. Call Arm or Start before feeding fixes to
// time a run.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	cfg = cfg.clone()

	table, err := splits.New(cfg.ThresholdsKmh)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		smoother: filter.New(cfg.Alpha),
		machine:  run.New(cfg.StopKmh, cfg.MovingKmh),
		table:    table,
	}
	e.newSession()
	return e, nil
}

// Ingest applies one fix and returns the resulting snapshot.
//
// A fix whose timestamp is not after the last accepted one is ignored and
// the previous snapshot is returned unchanged. An invalid fix returns
// ErrInvalidSample and leaves the engine untouched.
func (e *Engine) Ingest(s Sample) (Snapshot, error) {
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}

	now := s.TimestampMs
	if e.hasTs && now <= e.lastTs {
		e.rejected++
		monitoring.Debugf("[Engine] session=%s ignoring fix at %d ms (last accepted %d ms)", e.sessionID, now, e.lastTs)
		return e.last.clone(), nil
	}
	e.lastTs = now
	e.hasTs = true
	e.samples++

	raw := units.ConvertSpeed(s.speedOrZero(), units.KMPH)
	current := e.smoother.Next(raw)
	e.maxKmh = math.Max(e.maxKmh, current)

	if e.machine.Observe(current, now) {
		e.elapsedMs = 0
		e.avgKmh = 0
		monitoring.Logf("[Engine] session=%s launch detected at %d ms (%.1f km/h)", e.sessionID, now, current)
	}

	if e.hasCoord && (e.machine.Running() || e.cfg.AccumulateBeforeStart) {
		e.distanceM += geo.DistanceMeters(e.lastLat, e.lastLon, s.Latitude, s.Longitude)
	}
	e.lastLat, e.lastLon, e.hasCoord = s.Latitude, s.Longitude, true

	t0, hasT0 := e.machine.T0()
	if hasT0 {
		e.elapsedMs = now - t0
		e.avgKmh = averageKmh(e.distanceM, e.elapsedMs)
	}

	for _, i := range e.table.Observe(t0, hasT0, now, current) {
		target := e.cfg.ThresholdsKmh[i]
		monitoring.Logf("[Engine] session=%s %s in %d ms", e.sessionID, splits.Label(target), now-t0)
	}

	e.last = Snapshot{
		SessionID:    e.sessionID,
		State:        e.machine.State(),
		TimestampMs:  now,
		RawKmh:       raw,
		CurrentKmh:   current,
		MaxKmh:       e.maxKmh,
		AvgKmh:       e.avgKmh,
		DistanceM:    e.distanceM,
		ElapsedMs:    e.elapsedMs,
		Splits:       e.table.Entries(),
		FixAccuracyM: copyPtr(s.AccuracyM),
		Satellites:   copyPtr(s.Satellites),
		Samples:      e.samples,
		Rejected:     e.rejected,
	}
	return e.last.clone(), nil
}

// averageKmh is distance over elapsed time, 0 when no time has passed.
func averageKmh(distanceM float64, elapsedMs int64) float64 {
	if elapsedMs <= 0 {
		return 0
	}
	return (distanceM / 1000) / (float64(elapsedMs) / msPerHour)
}

// Arm waits for the next launch. Any previous time origin is dropped and
// elapsed time and average speed restart from zero; splits, distance and
// max speed are kept until Reset.
func (e *Engine) Arm() {
	e.machine.Arm()
	e.elapsedMs = 0
	e.avgKmh = 0
	e.refresh()
	monitoring.Logf("[Engine] session=%s armed", e.sessionID)
}

// Stop ends the run. Elapsed time and average speed stay frozen at their
// last running values.
func (e *Engine) Stop() {
	e.machine.Stop()
	e.refresh()
	monitoring.Logf("[Engine] session=%s stopped after %d ms", e.sessionID, e.elapsedMs)
}

// Reset returns to Idle and clears the filter, splits and accumulators,
// starting a new session.
func (e *Engine) Reset() {
	e.machine.Reset()
	e.smoother.Reset()
	e.table.Reset()

	e.distanceM = 0
	e.maxKmh = 0
	e.elapsedMs = 0
	e.avgKmh = 0
	e.lastLat, e.lastLon, e.hasCoord = 0, 0, false

	e.lastTs, e.hasTs = 0, false
	e.samples = 0
	e.rejected = 0

	prev := e.sessionID
	e.newSession()
	monitoring.Logf("[Engine] session=%s reset (new session %s)", prev, e.sessionID)
}

// Start resets the engine and arms it for a fresh run.
func (e *Engine) Start() {
	e.Reset()
	e.Arm()
}

func (e *Engine) newSession() {
	e.sessionID = uuid.NewString()
	e.last = Snapshot{
		SessionID: e.sessionID,
		State:     e.machine.State(),
		Splits:    e.table.Entries(),
	}
}

// refresh updates the stored snapshot after a command so a re-emitted
// snapshot reflects the current state.
func (e *Engine) refresh() {
	e.last.State = e.machine.State()
	e.last.ElapsedMs = e.elapsedMs
	e.last.AvgKmh = e.avgKmh
	e.last.Rejected = e.rejected
}

// Snapshot returns the most recent snapshot.
func (e *Engine) Snapshot() Snapshot {
	return e.last.clone()
}

// State returns the run state.
func (e *Engine) State() run.State {
	return e.machine.State()
}

// SessionID identifies the current session. Reset starts a new one.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Thresholds returns a copy of the configured split targets.
func (e *Engine) Thresholds() []float64 {
	return e.table.Thresholds()
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg.clone()
}

// Rejected returns how many fixes this session were ignored as duplicate or
// out of order.
func (e *Engine) Rejected() int {
	return e.rejected
}

// Smoothed returns the filter's current value and whether it is seeded.
func (e *Engine) Smoothed() (float64, bool) {
	return e.smoother.Value()
}
