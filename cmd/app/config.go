package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "THERMOGUARD_"

type Config struct {
	DeviceID string `koanf:"device_id" yaml:"device_id"`

	MQTT     MQTTConfig     `koanf:"mqtt" yaml:"mqtt"`
	Sensor   SensorConfig   `koanf:"sensor" yaml:"sensor"`
	Actuator ActuatorConfig `koanf:"actuator" yaml:"actuator"`
	Display  DisplayConfig  `koanf:"display" yaml:"display"`
}

// MQTTConfig is the broker connection shared by the mqtt sensor and actuator.
type MQTTConfig struct {
	BrokerURL string `koanf:"broker_url" yaml:"broker_url"`
	ClientID  string `koanf:"client_id" yaml:"client_id"`
	Username  string `koanf:"username" yaml:"username"`
	Password  string `koanf:"password" yaml:"password"`
}

type SensorConfig struct {
	Driver string             `koanf:"driver" yaml:"driver"` // "sim" | "modbus" | "mqtt"
	Modbus ModbusSensorConfig `koanf:"modbus" yaml:"modbus"`
	MQTT   MQTTSensorConfig   `koanf:"mqtt" yaml:"mqtt"`
	Sim    SimConfig          `koanf:"sim" yaml:"sim"`
}

type ModbusSensorConfig struct {
	Mode     string        `koanf:"mode" yaml:"mode"` // "tcp" | "rtu"
	Addr     string        `koanf:"addr" yaml:"addr"`
	Device   string        `koanf:"device" yaml:"device"`
	BaudRate int           `koanf:"baud_rate" yaml:"baud_rate"`
	UnitID   byte          `koanf:"unit_id" yaml:"unit_id"`
	Register uint16        `koanf:"register" yaml:"register"`
	Timeout  time.Duration `koanf:"timeout" yaml:"timeout"`
}

type MQTTSensorConfig struct {
	Topic  string        `koanf:"topic" yaml:"topic"`
	QoS    byte          `koanf:"qos" yaml:"qos"`
	MaxAge time.Duration `koanf:"max_age" yaml:"max_age"`
}

type SimConfig struct {
	InitialTemperature float64 `koanf:"initial_temperature" yaml:"initial_temperature"`
	OutdoorTemperature float64 `koanf:"outdoor_temperature" yaml:"outdoor_temperature"`
	Coefficient        float64 `koanf:"heat_loss_coefficient" yaml:"heat_loss_coefficient"`
	HeatingRate        float64 `koanf:"heating_rate" yaml:"heating_rate"`
	FaultEvery         int     `koanf:"fault_every" yaml:"fault_every"`
}

type ActuatorConfig struct {
	Driver string               `koanf:"driver" yaml:"driver"` // "sim" | "gpio" | "mqtt" | "modbus" | "log"
	GPIO   GPIOActuatorConfig   `koanf:"gpio" yaml:"gpio"`
	MQTT   MQTTActuatorConfig   `koanf:"mqtt" yaml:"mqtt"`
	Modbus ModbusActuatorConfig `koanf:"modbus" yaml:"modbus"`
}

type GPIOActuatorConfig struct {
	Chip      string `koanf:"chip" yaml:"chip"`
	Pin       int    `koanf:"pin" yaml:"pin"`
	ActiveLow bool   `koanf:"active_low" yaml:"active_low"`
}

type MQTTActuatorConfig struct {
	Topic      string `koanf:"topic" yaml:"topic"`
	QoS        byte   `koanf:"qos" yaml:"qos"`
	Retain     bool   `koanf:"retain" yaml:"retain"`
	PayloadOn  string `koanf:"payload_on" yaml:"payload_on"`
	PayloadOff string `koanf:"payload_off" yaml:"payload_off"`
}

// ModbusActuatorConfig selects the relay coil. The connection settings come
// from sensor.modbus.
type ModbusActuatorConfig struct {
	Coil uint16 `koanf:"coil" yaml:"coil"`
}

type DisplayConfig struct {
	Driver  string        `koanf:"driver" yaml:"driver"` // "console" | "oled"
	Console ConsoleConfig `koanf:"console" yaml:"console"`
	OLED    OLEDConfig    `koanf:"oled" yaml:"oled"`
}

type ConsoleConfig struct {
	Path string `koanf:"path" yaml:"path"` // empty for stdout
}

type OLEDConfig struct {
	Bus    string `koanf:"bus" yaml:"bus"`
	Width  int    `koanf:"width" yaml:"width"`
	Height int    `koanf:"height" yaml:"height"`
}

// Default runs fully simulated, so the binary works on a laptop.
func Default() Config {
	return Config{
		DeviceID: "default",
		MQTT: MQTTConfig{
			BrokerURL: "tcp://localhost:1883",
		},
		Sensor: SensorConfig{
			Driver: "sim",
			Modbus: ModbusSensorConfig{
				Mode:     "tcp",
				Addr:     "127.0.0.1:1502",
				Device:   "/dev/ttyUSB0",
				BaudRate: 9600,
				UnitID:   1,
				Timeout:  time.Second,
			},
			MQTT: MQTTSensorConfig{
				Topic:  "sensors/thermoguard/temperature",
				MaxAge: 30 * time.Second,
			},
			Sim: SimConfig{
				InitialTemperature: 21,
				OutdoorTemperature: 10,
				Coefficient:        0.002,
				HeatingRate:        0.1,
			},
		},
		Actuator: ActuatorConfig{
			Driver: "sim",
			GPIO: GPIOActuatorConfig{
				Chip: "gpiochip0",
				Pin:  16,
			},
			MQTT: MQTTActuatorConfig{
				Topic:      "cmnd/thermoguard-relay/POWER",
				PayloadOn:  "ON",
				PayloadOff: "OFF",
			},
		},
		Display: DisplayConfig{
			Driver: "console",
			OLED:   OLEDConfig{Width: 128, Height: 64},
		},
	}
}

// LoadConfig layers defaults, the optional file at path and THERMOGUARD_*
// environment variables, in that order.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			parser, err := parserFor(path)
			if err != nil {
				return Config{}, err
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		// Config file missing → use defaults
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			return envKeyTransform(strings.TrimPrefix(k, envPrefix)), v
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedConfigExt, ext)
	}
}

// sections with driver sub-sections, keyed to the sub-section names.
var envSections = map[string]map[string]bool{
	"sensor":   {"modbus": true, "mqtt": true, "sim": true},
	"actuator": {"gpio": true, "mqtt": true, "modbus": true},
	"display":  {"console": true, "oled": true},
	"mqtt":     nil,
}

// envKeyTransform maps SENSOR_MODBUS_UNIT_ID to sensor.modbus.unit_id. Keys
// outside a known section pass through lower-cased.
func envKeyTransform(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	if k == "" {
		return ""
	}

	section, rest, ok := strings.Cut(k, "_")
	subs, known := envSections[section]
	if !ok || !known {
		return k
	}

	if sub, tail, ok := strings.Cut(rest, "_"); ok && subs[sub] {
		return section + "." + sub + "." + tail
	}
	return section + "." + rest
}

func (c Config) Validate() error {
	switch c.Sensor.Driver {
	case "sim", "modbus", "mqtt":
	default:
		return fmt.Errorf("%w %q", ErrUnknownSensorDriver, c.Sensor.Driver)
	}
	switch c.Actuator.Driver {
	case "sim", "gpio", "mqtt", "modbus", "log":
	default:
		return fmt.Errorf("%w %q", ErrUnknownActuatorDriver, c.Actuator.Driver)
	}
	switch c.Display.Driver {
	case "console", "oled":
	default:
		return fmt.Errorf("%w %q", ErrUnknownDisplayDriver, c.Display.Driver)
	}
	if c.Actuator.Driver == "sim" && c.Sensor.Driver != "sim" {
		return ErrSimulatedPairing
	}
	if c.usesMQTT() && c.MQTT.BrokerURL == "" {
		return ErrMissingBroker
	}
	return nil
}

func (c Config) usesMQTT() bool {
	return c.Sensor.Driver == "mqtt" || c.Actuator.Driver == "mqtt"
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.MQTT.Password != "" {
		c.MQTT.Password = "***"
	}
	return c
}
