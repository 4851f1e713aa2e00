package actuator

// Plant is anything the heater warms, such as sensor.Simulated.
type Plant interface {
	SetHeater(on bool)
}

type Simulated struct {
	plant Plant
}

func NewSimulated(p Plant) *Simulated {
	return &Simulated{plant: p}
}

func (s *Simulated) Set(on bool) error {
	s.plant.SetHeater(on)
	return nil
}
