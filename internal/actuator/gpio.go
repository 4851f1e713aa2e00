// Package actuator drives the heater output.
package actuator

// DefaultChip is the gpiochip the relay line lives on.
const DefaultChip = "gpiochip0"

type GPIOConfig struct {
	Chip      string
	Pin       int // line offset (BCM numbering on a Raspberry Pi)
	ActiveLow bool
}
