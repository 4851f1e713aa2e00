package thermostat

// State is the controller's externally visible mode. It is derived by
// Transition and never set directly.
type State int

const (
	StateIdle State = iota
	StateHeating
	StateStabilizing
	StateTargetReached
	StateOverheat
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHeating:
		return "heating"
	case StateStabilizing:
		return "stabilizing"
	case StateTargetReached:
		return "target_reached"
	case StateOverheat:
		return "overheat"
	default:
		return "unknown"
	}
}

// Labels maps a State to its presentation string for one output channel.
type Labels map[State]string

func (l Labels) Of(s State) string {
	if v, ok := l[s]; ok {
		return v
	}
	return "UNKNOWN"
}

// DisplayLabels are short enough for a 128px wide panel.
var DisplayLabels = Labels{
	StateIdle:          "IDLE",
	StateHeating:       "HEATING",
	StateStabilizing:   "STABILIZING",
	StateTargetReached: "TARGET OK",
	StateOverheat:      "OVERHEAT!",
}

var LogLabels = Labels{
	StateIdle:          "IDLE",
	StateHeating:       "HEATING",
	StateStabilizing:   "STABILIZING",
	StateTargetReached: "TARGET REACHED",
	StateOverheat:      "OVERHEAT",
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
