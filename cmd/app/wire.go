package app

import (
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/Agrid-Dev/thermoguard/internal/actuator"
	"github.com/Agrid-Dev/thermoguard/internal/device"
	"github.com/Agrid-Dev/thermoguard/internal/display"
	"github.com/Agrid-Dev/thermoguard/internal/ports"
	"github.com/Agrid-Dev/thermoguard/internal/sensor"
)

// Build wires the drivers selected by cfg into a Device. The returned
// cleanup closes the drivers and disconnects from the broker.
func Build(cfg Config, lines ports.LineLogger) (*device.Device, func(), error) {
	var (
		src     ports.TemperatureSource
		act     ports.Actuator
		sim     *sensor.Simulated
		mqttSrc *sensor.MQTT
		mbConn  *sensor.Modbus
		err     error
	)

	switch cfg.Sensor.Driver {
	case "sim":
		sim, err = sensor.NewSimulated(sensor.SimulatedParams{
			InitialTemperature: cfg.Sensor.Sim.InitialTemperature,
			OutdoorTemperature: cfg.Sensor.Sim.OutdoorTemperature,
			Coefficient:        cfg.Sensor.Sim.Coefficient,
			HeatingRate:        cfg.Sensor.Sim.HeatingRate,
			FaultEvery:         cfg.Sensor.Sim.FaultEvery,
		})
		src = sim
	case "modbus":
		mbConn, err = newModbusConn(cfg.Sensor.Modbus)
		src = mbConn
	case "mqtt":
		mqttSrc, err = sensor.NewMQTT(sensor.MQTTConfig{
			Topic:  cfg.Sensor.MQTT.Topic,
			QoS:    cfg.Sensor.MQTT.QoS,
			MaxAge: cfg.Sensor.MQTT.MaxAge,
		})
		src = mqttSrc
	default:
		err = fmt.Errorf("%w %q", ErrUnknownSensorDriver, cfg.Sensor.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("sensor: %w", err)
	}

	// Closed by cleanup when the relay needs a Modbus link of its own.
	var relayConn *sensor.Modbus

	var client mqtt.Client
	if cfg.usesMQTT() {
		var onConnect []func(mqtt.Client)
		if mqttSrc != nil {
			onConnect = append(onConnect, mqttSrc.Subscribe)
		}
		client = connectMQTT(cfg, onConnect...)
	}

	switch cfg.Actuator.Driver {
	case "sim":
		if sim == nil {
			err = ErrSimulatedPairing
			break
		}
		act = actuator.NewSimulated(sim)
	case "gpio":
		act, err = actuator.NewGPIO(actuator.GPIOConfig{
			Chip:      cfg.Actuator.GPIO.Chip,
			Pin:       cfg.Actuator.GPIO.Pin,
			ActiveLow: cfg.Actuator.GPIO.ActiveLow,
		})
	case "mqtt":
		act, err = actuator.NewMQTT(client, actuator.MQTTConfig{
			Topic:      cfg.Actuator.MQTT.Topic,
			QoS:        cfg.Actuator.MQTT.QoS,
			Retain:     cfg.Actuator.MQTT.Retain,
			PayloadOn:  cfg.Actuator.MQTT.PayloadOn,
			PayloadOff: cfg.Actuator.MQTT.PayloadOff,
		})
	case "modbus":
		if mbConn == nil {
			relayConn, err = newModbusConn(cfg.Sensor.Modbus)
			if err != nil {
				break
			}
			mbConn = relayConn
		}
		act, err = actuator.NewModbus(mbConn, cfg.Actuator.Modbus.Coil)
	case "log":
		act = actuator.NewLog(lines)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownActuatorDriver, cfg.Actuator.Driver)
	}
	if err != nil {
		disconnect(client)
		return nil, nil, fmt.Errorf("actuator: %w", err)
	}

	var disp ports.Display
	switch cfg.Display.Driver {
	case "console":
		if cfg.Display.Console.Path == "" {
			disp = display.NewConsole(os.Stdout)
		} else {
			disp = display.NewConsoleFile(cfg.Display.Console.Path)
		}
	case "oled":
		disp = display.NewOLED(display.OLEDConfig{
			Bus:    cfg.Display.OLED.Bus,
			Width:  cfg.Display.OLED.Width,
			Height: cfg.Display.OLED.Height,
		})
	default:
		if relayConn != nil {
			_ = relayConn.Close()
		}
		disconnect(client)
		return nil, nil, fmt.Errorf("display: %w %q", ErrUnknownDisplayDriver, cfg.Display.Driver)
	}

	dev := device.New(cfg.DeviceID, src, act, disp, lines)
	cleanup := func() {
		if err := dev.Close(); err != nil {
			log.Printf("close drivers: %v", err)
		}
		if relayConn != nil {
			_ = relayConn.Close()
		}
		disconnect(client)
	}
	return dev, cleanup, nil
}

// newModbusConn opens the link described by sensor.modbus. The modbus relay
// reuses the same device settings.
func newModbusConn(c ModbusSensorConfig) (*sensor.Modbus, error) {
	return sensor.NewModbus(sensor.ModbusConfig{
		Mode:     c.Mode,
		Addr:     c.Addr,
		Device:   c.Device,
		BaudRate: c.BaudRate,
		UnitID:   c.UnitID,
		Register: c.Register,
		Timeout:  c.Timeout,
	})
}

func connectMQTT(cfg Config, onConnect ...func(mqtt.Client)) mqtt.Client {
	clientID := cfg.MQTT.ClientID
	if clientID == "" {
		// Client IDs must be unique per broker.
		clientID = "thermoguard-" + cfg.DeviceID + "-" + uuid.NewString()[:8]
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.BrokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}

	// Subscribe when connected/reconnected.
	opts.OnConnect = func(cl mqtt.Client) {
		for _, fn := range onConnect {
			fn(cl)
		}
	}

	client := mqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		log.Printf("mqtt: %s not reachable yet, retrying in background", cfg.MQTT.BrokerURL)
	} else if err := tok.Error(); err != nil {
		log.Printf("mqtt connect: %v", err)
	}
	return client
}

func disconnect(c mqtt.Client) {
	if c != nil {
		c.Disconnect(250)
	}
}
