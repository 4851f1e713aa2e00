//go:build linux

package actuator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIO drives a relay line through the Linux GPIO character device.
type GPIO struct {
	line *gpiocdev.Line
}

// NewGPIO requests the line as an output, initially inactive (heater off).
func NewGPIO(cfg GPIOConfig) (*GPIO, error) {
	if cfg.Pin < 0 {
		return nil, ErrInvalidPin
	}
	if cfg.Chip == "" {
		cfg.Chip = DefaultChip
	}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.WithConsumer("thermoguard"),
		gpiocdev.AsOutput(0),
	}
	if cfg.ActiveLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	line, err := gpiocdev.RequestLine(cfg.Chip, cfg.Pin, opts...)
	if err != nil {
		return nil, fmt.Errorf("request relay pin %d on %s: %w", cfg.Pin, cfg.Chip, err)
	}
	return &GPIO{line: line}, nil
}

func (g *GPIO) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := g.line.SetValue(v); err != nil {
		return fmt.Errorf("set relay pin: %w", err)
	}
	return nil
}

// Close drives the relay inactive, then releases the line.
func (g *GPIO) Close() error {
	if g.line == nil {
		return nil
	}
	var errs []error
	if err := g.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("reset relay pin: %w", err))
	}
	if err := g.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close relay pin: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
