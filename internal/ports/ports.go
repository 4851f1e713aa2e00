package ports

import "context"

// TemperatureSource is polled once per sensing cycle. An error, or a
// non-finite value, is a sensor fault.
type TemperatureSource interface {
	Read(ctx context.Context) (float64, error)
}

// Actuator drives the heater output. Commands are fire-and-forget.
type Actuator interface {
	Set(on bool) error
}

// Display is the local status channel.
type Display interface {
	// Init performs the boot handshake. A failure is fatal to the controller.
	Init(ctx context.Context) error
	Render(temperature float64, heaterOn bool, label string) error
}

// LineLogger is the diagnostic line stream, satisfied by *log.Logger.
type LineLogger interface {
	Printf(format string, v ...any)
}
