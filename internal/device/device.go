package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Agrid-Dev/thermoguard/internal/ports"
	"github.com/Agrid-Dev/thermoguard/internal/thermostat"
)

// BootDelay is how long the boot splash stays up before the loops start.
const BootDelay = time.Second

var ErrDisplayInit = errors.New("display init failed")

// Device is one thermostat with its collaborators wired in.
type Device struct {
	ID string
	T  *thermostat.Thermostat

	Source   ports.TemperatureSource
	Actuator ports.Actuator
	Display  ports.Display
	Log      ports.LineLogger

	SensePeriod  time.Duration
	ReportPeriod time.Duration
	BootDelay    time.Duration
}

func New(id string, src ports.TemperatureSource, act ports.Actuator, disp ports.Display, log ports.LineLogger) *Device {
	return &Device{
		ID:           id,
		T:            thermostat.New(),
		Source:       src,
		Actuator:     act,
		Display:      disp,
		Log:          log,
		SensePeriod:  thermostat.SensePeriod,
		ReportPeriod: thermostat.ReportPeriod,
		BootDelay:    BootDelay,
	}
}

// Boot forces the heater off and performs the display handshake. A display
// failure is returned wrapped in ErrDisplayInit and the heater stays off.
func (d *Device) Boot(ctx context.Context) error {
	if err := d.Actuator.Set(false); err != nil {
		d.Log.Printf("actuator error: %v", err)
	}
	if err := d.Display.Init(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrDisplayInit, err)
	}

	if d.BootDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.BootDelay):
		}
	}
	return nil
}

// Run boots the device, then runs the sensing and reporting loops until ctx
// is done. Nothing is started when Boot fails.
func (d *Device) Run(ctx context.Context) error {
	if err := d.Boot(ctx); err != nil {
		return err
	}

	sensing := thermostat.NewSensingLoop(d.T, d.Source, d.Actuator, d.Log)
	reporting := thermostat.NewReportingLoop(d.T, d.Display, d.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sensing.Run(gctx, d.SensePeriod) })
	g.Go(func() error { return reporting.Run(gctx, d.ReportPeriod) })
	return g.Wait()
}

// Close releases every collaborator that holds resources.
func (d *Device) Close() error {
	var errs []error
	seen := map[any]bool{}
	for _, c := range []any{d.Source, d.Actuator, d.Display} {
		closer, ok := c.(io.Closer)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
