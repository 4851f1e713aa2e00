package actuator

// CoilWriter is a Modbus link able to set one coil. *sensor.Modbus
// satisfies it, so the relay can share the transmitter's connection.
type CoilWriter interface {
	WriteCoil(addr uint16, on bool) error
}

// Modbus drives the heater through a single coil.
type Modbus struct {
	w    CoilWriter
	coil uint16
}

func NewModbus(w CoilWriter, coil uint16) (*Modbus, error) {
	if w == nil {
		return nil, ErrMissingWriter
	}
	return &Modbus{w: w, coil: coil}, nil
}

func (a *Modbus) Set(on bool) error {
	return a.w.WriteCoil(a.coil, on)
}
