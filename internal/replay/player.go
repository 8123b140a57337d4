package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/banshee-data/launchtimer/internal/config"
	"github.com/banshee-data/launchtimer/internal/engine"
	"github.com/banshee-data/launchtimer/internal/monitoring"
	"github.com/banshee-data/launchtimer/internal/timeutil"
)

// Player drives an Engine from a recorded track. It is the engine's only
// caller while Play runs.
type Player struct {
	Engine *engine.Engine
	Clock  timeutil.Clock

	// Realtime waits between fixes for the recorded gap divided by Speedup.
	Realtime bool
	Speedup  float64
	// MaxGap caps a single wait so signal dropouts do not stall the replay.
	// Zero means no cap.
	MaxGap time.Duration
}

// NewPlayer returns a Player using the real clock and the replay settings
// from cfg. Pacing is off until Realtime is set.
func NewPlayer(e *engine.Engine, cfg *config.TuningConfig) *Player {
	return &Player{
		Engine:  e,
		Clock:   timeutil.RealClock{},
		Speedup: cfg.GetRealtimeSpeedup(),
		MaxGap:  cfg.GetMaxReplayGap(),
	}
}

// Play ingests samples in order and calls fn with the snapshot of every
// accepted fix. It stops early when ctx is cancelled, returning the summary
// so far alongside ctx.Err().
func (p *Player) Play(ctx context.Context, samples []engine.Sample, fn func(engine.Snapshot)) (Summary, error) {
	start := p.Clock.Now()
	rejectedBefore := p.Engine.Rejected()

	var (
		sum        Summary
		accuracies []float64
		intervals  []float64
		prevTs     int64
		havePrev   bool
	)
	finish := func() Summary {
		sum.SessionID = p.Engine.SessionID()
		sum.Rejected = p.Engine.Rejected() - rejectedBefore
		sum.Final = p.Engine.Snapshot()
		sum.WallTime = p.Clock.Since(start)
		sum.AccuracyM = describe(accuracies)
		sum.IntervalMs = describe(intervals)
		return sum
	}

	for i, s := range samples {
		if err := ctx.Err(); err != nil {
			return finish(), err
		}

		if p.Realtime && havePrev {
			if err := p.pace(ctx, s.TimestampMs-prevTs); err != nil {
				return finish(), err
			}
		}

		rejected := p.Engine.Rejected()
		snap, err := p.Engine.Ingest(s)
		if err != nil {
			return finish(), fmt.Errorf("sample %d: %w", i, err)
		}
		if p.Engine.Rejected() != rejected {
			continue
		}

		sum.Accepted++
		if havePrev {
			intervals = append(intervals, float64(s.TimestampMs-prevTs))
		}
		if s.AccuracyM != nil {
			accuracies = append(accuracies, *s.AccuracyM)
		}
		prevTs, havePrev = s.TimestampMs, true

		if fn != nil {
			fn(snap)
		}
	}

	out := finish()
	monitoring.Logf("[Replay] session=%s accepted=%d rejected=%d in %s", out.SessionID, out.Accepted, out.Rejected, out.WallTime)
	return out, nil
}

// pace waits out a recorded gap scaled by Speedup and capped by MaxGap.
// It returns ctx.Err() if ctx is cancelled before or during the wait.
func (p *Player) pace(ctx context.Context, gapMs int64) error {
	if gapMs <= 0 {
		return nil
	}
	speedup := p.Speedup
	if speedup <= 0 {
		speedup = 1
	}
	d := time.Duration(float64(gapMs) / speedup * float64(time.Millisecond))
	if p.MaxGap > 0 && d > p.MaxGap {
		d = p.MaxGap
	}
	select {
	case <-ctx.Done():
	case <-p.Clock.After(d):
	}
	return ctx.Err()
}
