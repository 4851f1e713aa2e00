package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/Agrid-Dev/thermoguard/internal/sensor"
	"github.com/Agrid-Dev/thermoguard/internal/thermostat"
)

// TemperatureCommand forces the room temperature at a given iteration, to
// exercise the overheat branch.
type TemperatureCommand struct {
	IterationNumber int
	Value           float64
}

func SimulateThermostat(iterations int, filename string, commands []TemperatureCommand) error {
	room, err := sensor.NewSimulated(sensor.SimulatedParams{
		InitialTemperature: 18,
		OutdoorTemperature: 5,
		Coefficient:        0.002,
		HeatingRate:        0.05,
	})
	if err != nil {
		return fmt.Errorf("failed to create room: %v", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Iteration", "Temperature", "HeaterOn", "State"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	state, heaterOn := thermostat.StateIdle, false
	for i := range iterations {
		for _, cmd := range commands {
			if cmd.IterationNumber == i+1 {
				room.SetTemperature(cmd.Value)
				break
			}
		}

		temp := room.Temperature()
		state, heaterOn = thermostat.Transition(temp, heaterOn, state)
		room.SetHeater(heaterOn)

		if err := writer.Write([]string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.2f", temp),
			strconv.FormatBool(heaterOn),
			state.String(),
		}); err != nil {
			return fmt.Errorf("failed to write CSV record: %v", err)
		}

		room.Advance(thermostat.SensePeriod)
	}

	return nil
}

func main() {
	commands := []TemperatureCommand{
		{IterationNumber: 300, Value: 31.5},
	}
	if err := SimulateThermostat(600, "thermoguard.csv", commands); err != nil {
		log.Fatal(err)
	}
}
