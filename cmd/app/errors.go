package app

import "errors"

var (
	ErrUnknownSensorDriver   = errors.New("unknown sensor driver")
	ErrUnknownActuatorDriver = errors.New("unknown actuator driver")
	ErrUnknownDisplayDriver  = errors.New("unknown display driver")
	ErrSimulatedPairing      = errors.New("the sim actuator requires the sim sensor")
	ErrMissingBroker         = errors.New("mqtt: broker_url is required")
	ErrUnsupportedConfigExt  = errors.New("unsupported config extension")
)
