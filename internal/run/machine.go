// Package run owns the arm/launch/stop lifecycle of a timed run and the
// time origin every split and average is measured from.
package run

// State is the lifecycle state of a run.
type State string

const (
	Idle    State = "idle"    // Initial state, and after Stop or Reset
	Armed   State = "armed"   // Waiting for a qualifying launch
	Running State = "running" // Launched; t0 is set
)

// Machine is the run state machine. Observe is the only sample-driven
// transition; Arm, Stop and Reset are external commands.
//
// While Armed, speeds at or below stopKmh read as parked and speeds strictly
// between stopKmh and movingKmh are ignored, so GPS jitter around zero never
// starts the clock.
type Machine struct {
	stopKmh   float64
	movingKmh float64

	state State
	t0    int64
}

// New returns an Idle machine with the given hysteresis thresholds (km/h).
func New(stopKmh, movingKmh float64) *Machine {
	return &Machine{
		stopKmh:   stopKmh,
		movingKmh: movingKmh,
		state:     Idle,
	}
}

// Arm moves to Armed from any state and clears the time origin.
func (m *Machine) Arm() {
	m.state = Armed
	m.t0 = 0
}

// Stop moves to Idle from any state.
func (m *Machine) Stop() {
	m.state = Idle
	m.t0 = 0
}

// Reset moves to Idle from any state. Callers owning other session state
// clear it alongside.
func (m *Machine) Reset() {
	m.Stop()
}

// Observe applies one smoothed speed sample. It returns true only on the
// sample that launches the run, whose timestamp becomes t0.
func (m *Machine) Observe(kmh float64, nowMs int64) bool {
	if m.state != Armed {
		return false
	}
	if kmh <= m.stopKmh || kmh < m.movingKmh {
		return false
	}
	m.state = Running
	m.t0 = nowMs
	return true
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Running reports whether a run is in progress.
func (m *Machine) Running() bool {
	return m.state == Running
}

// T0 returns the time origin in milliseconds and whether it is set.
func (m *Machine) T0() (int64, bool) {
	if m.state != Running {
		return 0, false
	}
	return m.t0, true
}
