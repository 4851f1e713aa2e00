// Package display renders controller status on a local panel.
package display

import "fmt"

// BootMessage is shown once the panel has been initialised.
const BootMessage = "System Booting..."

// StatusLines is the three-line layout shared by every panel.
func StatusLines(temperature float64, heaterOn bool, label string) []string {
	heater := "OFF"
	if heaterOn {
		heater = "ON"
	}
	return []string{
		fmt.Sprintf("Temp: %.2f C", temperature),
		"Heater: " + heater,
		"State: " + label,
	}
}
