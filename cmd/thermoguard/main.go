package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/Agrid-Dev/thermoguard/cmd/app"
	"github.com/Agrid-Dev/thermoguard/internal/device"
)

func main() {
	var (
		configPath  string
		printConfig bool
	)
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file (.yaml/.yml/.json)")
	flag.BoolVar(&printConfig, "print-config", false, "print the effective config and exit")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if printConfig {
		out, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(out))
		return
	}

	lines := log.New(os.Stdout, "", log.LstdFlags)

	dev, cleanup, err := app.Build(cfg, lines)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("thermoguard %s: sensor=%s actuator=%s display=%s",
		cfg.DeviceID, cfg.Sensor.Driver, cfg.Actuator.Driver, cfg.Display.Driver)

	err = dev.Run(ctx)
	cleanup()
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, device.ErrDisplayInit):
		// Heater was forced off during boot; halt.
		log.Fatalf("OLED failed: %v", err)
	default:
		log.Fatalf("controller exited: %v", err)
	}
}
