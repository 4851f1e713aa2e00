package thermostat

// Fixed hysteresis thresholds, in Celsius.
const (
	HeatBelow     = 24.0
	StableMax     = 26.0
	OverheatAbove = 30.0
)

// Transition maps a reading and the commanded heater state to the next
// (state, heaterOn) pair.
//
// The checks run in a fixed order and each one may overwrite the result of
// an earlier one; later checks see the heaterOn value left by earlier ones.
// prev is returned unchanged when no check assigns a state, which happens
// below HeatBelow with the heater already on and inside (StableMax,
// OverheatAbove] with the heater off.
func Transition(temp float64, heaterOn bool, prev State) (State, bool) {
	state := prev

	inBand := temp >= HeatBelow && temp <= StableMax

	if temp < HeatBelow && !heaterOn {
		heaterOn = true
		state = StateHeating
	} else if inBand && heaterOn {
		state = StateStabilizing
	} else if temp > StableMax && heaterOn {
		heaterOn = false
		state = StateTargetReached
	}

	if temp > OverheatAbove {
		state = StateOverheat
		heaterOn = false
	}

	// Re-checked after the overheat cut-off may have cleared heaterOn.
	if !heaterOn && temp < HeatBelow {
		state = StateHeating
		heaterOn = true
	}

	if !heaterOn && inBand {
		state = StateIdle
	}

	return state, heaterOn
}
