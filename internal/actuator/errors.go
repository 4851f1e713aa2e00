package actuator

import "errors"

var (
	ErrUnsupported   = errors.New("gpio: not supported on this platform (requires Linux)")
	ErrInvalidPin    = errors.New("gpio: pin must be >= 0")
	ErrMissingTopic  = errors.New("mqtt: command topic is required")
	ErrInvalidQoS    = errors.New("mqtt: QoS must be 0 or 1")
	ErrMissingWriter = errors.New("modbus: coil writer is required")
)
