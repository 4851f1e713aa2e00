package thermostat

import (
	"sync"
	"time"
)

// Reference loop periods.
const (
	SensePeriod  = 3 * time.Second
	ReportPeriod = 2 * time.Second
)

type Snapshot struct {
	Temperature float64
	HeaterOn    bool
	State       State
}

// Thermostat owns the single shared Snapshot. Every read and write covers the
// whole record under one lock, so readers never observe a partial update.
type Thermostat struct {
	mu sync.RWMutex
	s  Snapshot
}

// New returns a thermostat at {0, off, Idle}.
func New() *Thermostat {
	return &Thermostat{s: Snapshot{State: StateIdle}}
}

func (t *Thermostat) Get() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.s
}

// Apply records a successful reading and runs Transition against the current
// heater state. It returns the stored snapshot.
func (t *Thermostat) Apply(temp float64) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, on := Transition(temp, t.s.HeaterOn, t.s.State)
	t.s = Snapshot{
		Temperature: temp,
		HeaterOn:    on,
		State:       state,
	}
	return t.s
}
