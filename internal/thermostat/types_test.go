package thermostat

import "testing"

func TestStateString_Table(t *testing.T) {
	cases := []struct {
		name string
		in   State
		want string
	}{
		{"idle (zero)", StateIdle, "idle"},
		{"heating", StateHeating, "heating"},
		{"stabilizing", StateStabilizing, "stabilizing"},
		{"target reached", StateTargetReached, "target_reached"},
		{"overheat", StateOverheat, "overheat"},
		{"unknown (out of range)", State(999), "unknown"},
		{"unknown (negative)", State(-1), "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.String(); got != tc.want {
				t.Fatalf("State(%d).String()=%q want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	cases := []struct {
		s       State
		display string
		log     string
	}{
		{StateIdle, "IDLE", "IDLE"},
		{StateHeating, "HEATING", "HEATING"},
		{StateStabilizing, "STABILIZING", "STABILIZING"},
		{StateTargetReached, "TARGET OK", "TARGET REACHED"},
		{StateOverheat, "OVERHEAT!", "OVERHEAT"},
		{State(42), "UNKNOWN", "UNKNOWN"},
	}

	for _, tc := range cases {
		t.Run(tc.s.String(), func(t *testing.T) {
			if got := DisplayLabels.Of(tc.s); got != tc.display {
				t.Errorf("DisplayLabels.Of(%v)=%q want %q", tc.s, got, tc.display)
			}
			if got := LogLabels.Of(tc.s); got != tc.log {
				t.Errorf("LogLabels.Of(%v)=%q want %q", tc.s, got, tc.log)
			}
		})
	}
}
