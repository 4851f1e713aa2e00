package actuator

import "github.com/Agrid-Dev/thermoguard/internal/ports"

// Log is a dry-run actuator: it only records transitions of the command.
type Log struct {
	log  ports.LineLogger
	last *bool
}

func NewLog(l ports.LineLogger) *Log {
	return &Log{log: l}
}

func (a *Log) Set(on bool) error {
	if a.last == nil || *a.last != on {
		state := "OFF"
		if on {
			state = "ON"
		}
		a.log.Printf("relay -> %s", state)
	}
	a.last = &on
	return nil
}
