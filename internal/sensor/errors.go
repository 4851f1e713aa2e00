package sensor

import "errors"

var (
	ErrNegativeHeatLossCoefficient = errors.New("heat loss coefficient must be greater or equal to zero")
	ErrNegativeHeatingRate         = errors.New("heating rate must be greater or equal to zero")
	ErrSimulatedFault              = errors.New("simulated sensor fault")
	ErrNoReading                   = errors.New("no reading received yet")
	ErrStaleReading                = errors.New("reading is stale")
	ErrInvalidModbusMode           = errors.New("modbus mode must be tcp or rtu")
	ErrMissingTopic                = errors.New("mqtt: topic is required")
	ErrInvalidQoS                  = errors.New("mqtt: QoS must be 0 or 1")
)
