package thermostat

import "errors"

var (
	ErrSensorFault     = errors.New("sensor fault")
	ErrInvalidInterval = errors.New("loop interval must be positive")
)
