package sensor

import (
	"context"
	"sync"
	"time"
)

type SimulatedParams struct {
	InitialTemperature float64
	OutdoorTemperature float64
	Coefficient        float64 // >= 0, represents conductivity. 0 for no loss.
	HeatingRate        float64 // °C/s added while the heater is on
	FaultEvery         int     // every n-th read fails; 0 disables
}

func (params *SimulatedParams) Validate() error {
	if params.Coefficient < 0 {
		return ErrNegativeHeatLossCoefficient
	}
	if params.HeatingRate < 0 {
		return ErrNegativeHeatingRate
	}
	return nil
}

// Simulated is a single-room model. It is both a temperature source and,
// through SetHeater, the plant the heater acts on.
type Simulated struct {
	mu       sync.Mutex
	params   SimulatedParams
	temp     float64
	heaterOn bool
	reads    int
	last     time.Time
	now      func() time.Time
}

func NewSimulated(params SimulatedParams) (*Simulated, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Simulated{
		params: params,
		temp:   params.InitialTemperature,
		now:    time.Now,
	}, nil
}

// DeltaTemperature is the change over dt for the given indoor temperature.
func (s *Simulated) DeltaTemperature(indoor float64, heaterOn bool, dt time.Duration) float64 {
	diff := s.params.OutdoorTemperature - indoor
	delta := s.params.Coefficient * diff * dt.Seconds()
	if heaterOn {
		delta += s.params.HeatingRate * dt.Seconds()
	}
	return delta
}

// Advance moves the model forward by dt.
func (s *Simulated) Advance(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temp += s.DeltaTemperature(s.temp, s.heaterOn, dt)
}

// Read advances the model by the wall time elapsed since the previous read.
func (s *Simulated) Read(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.last.IsZero() {
		s.temp += s.DeltaTemperature(s.temp, s.heaterOn, now.Sub(s.last))
	}
	s.last = now

	s.reads++
	if s.params.FaultEvery > 0 && s.reads%s.params.FaultEvery == 0 {
		return 0, ErrSimulatedFault
	}
	return s.temp, nil
}

func (s *Simulated) SetHeater(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heaterOn = on
}

func (s *Simulated) Temperature() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.temp
}

func (s *Simulated) SetTemperature(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temp = v
}

func (s *Simulated) HeaterOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heaterOn
}
