package thermostat

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Agrid-Dev/thermoguard/internal/ports"
)

// SensingLoop is the only writer of the Thermostat snapshot.
type SensingLoop struct {
	th  *Thermostat
	src ports.TemperatureSource
	act ports.Actuator
	log ports.LineLogger
}

func NewSensingLoop(th *Thermostat, src ports.TemperatureSource, act ports.Actuator, log ports.LineLogger) *SensingLoop {
	return &SensingLoop{th: th, src: src, act: act, log: log}
}

// Step runs one sensing cycle. A faulted read leaves the snapshot untouched,
// issues no actuator command and returns an error wrapping ErrSensorFault.
func (l *SensingLoop) Step(ctx context.Context) error {
	temp, err := l.src.Read(ctx)
	if err == nil && (math.IsNaN(temp) || math.IsInf(temp, 0)) {
		err = fmt.Errorf("non-finite reading %v", temp)
	}
	if err != nil {
		l.log.Printf("Sensor error: %v", err)
		return fmt.Errorf("%w: %v", ErrSensorFault, err)
	}

	s := l.th.Apply(temp)

	// Issued every cycle, even when unchanged.
	if err := l.act.Set(s.HeaterOn); err != nil {
		l.log.Printf("actuator error: %v", err)
	}

	l.log.Printf("Temperature: %.2f C | Heater: %s | State: %s", s.Temperature, onOff(s.HeaterOn), LogLabels.Of(s.State))
	return nil
}

// Run polls immediately, then once per interval until ctx is done.
func (l *SensingLoop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = l.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = l.Step(ctx)
		}
	}
}
