//go:build !linux

package actuator

// GPIO is not available on non-Linux platforms.
type GPIO struct{}

func NewGPIO(cfg GPIOConfig) (*GPIO, error) {
	return nil, ErrUnsupported
}

func (g *GPIO) Set(on bool) error {
	return ErrUnsupported
}

func (g *GPIO) Close() error {
	return nil
}
