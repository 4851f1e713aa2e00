package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Agrid-Dev/thermoguard/internal/sensor"
	"github.com/Agrid-Dev/thermoguard/internal/sensorsim"
)

func main() {
	var (
		addr   string
		params sensor.SimulatedParams
	)
	flag.StringVar(&addr, "addr", "127.0.0.1:1502", "modbus tcp listen address")
	flag.Float64Var(&params.InitialTemperature, "initial", 21, "initial room temperature (C)")
	flag.Float64Var(&params.OutdoorTemperature, "outdoor", 10, "outdoor temperature (C)")
	flag.Float64Var(&params.Coefficient, "heat-loss", 0.002, "heat loss coefficient (1/s)")
	flag.Float64Var(&params.HeatingRate, "heating-rate", 0.1, "heating rate while coil 0 is set (C/s)")
	flag.IntVar(&params.FaultEvery, "fault-every", 0, "fail every n-th input register read (0 disables)")
	flag.Parse()

	room, err := sensor.NewSimulated(params)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("sensorsim listening on %s", addr)
	if err := sensorsim.New(room, sensorsim.Config{Addr: addr}).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("sensorsim: %v", err)
	}
}
