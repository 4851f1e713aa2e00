package sensor

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// TemperatureScale is the fixed-point factor of the temperature register.
const TemperatureScale int = 100

type ModbusConfig struct {
	Mode     string // "tcp" | "rtu"
	Addr     string // host:port for tcp
	Device   string // serial device for rtu
	BaudRate int
	UnitID   byte
	Register uint16 // input register holding the temperature
	Timeout  time.Duration
}

// clientHandler is the part of goburrow's TCP and RTU handlers we use.
type clientHandler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Modbus reads the temperature from a single input register of a Modbus
// transmitter. The connection is reopened on the next read after a failure.
type Modbus struct {
	cfg ModbusConfig

	mu        sync.Mutex
	handler   clientHandler
	client    modbus.Client
	connected bool
}

func NewModbus(cfg ModbusConfig) (*Modbus, error) {
	if cfg.Mode == "" {
		cfg.Mode = "tcp"
	}
	if cfg.UnitID == 0 {
		cfg.UnitID = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}

	var h clientHandler
	switch cfg.Mode {
	case "tcp":
		if cfg.Addr == "" {
			cfg.Addr = "127.0.0.1:1502"
		}
		th := modbus.NewTCPClientHandler(cfg.Addr)
		th.SlaveId = cfg.UnitID
		th.Timeout = cfg.Timeout
		h = th
	case "rtu":
		if cfg.Device == "" {
			cfg.Device = "/dev/ttyUSB0"
		}
		if cfg.BaudRate == 0 {
			cfg.BaudRate = 9600
		}
		rh := modbus.NewRTUClientHandler(cfg.Device)
		rh.BaudRate = cfg.BaudRate
		rh.DataBits = 8
		rh.Parity = "N"
		rh.StopBits = 1
		rh.SlaveId = cfg.UnitID
		rh.Timeout = cfg.Timeout
		h = rh
	default:
		return nil, ErrInvalidModbusMode
	}

	return &Modbus{cfg: cfg, handler: h, client: modbus.NewClient(h)}, nil
}

func (m *Modbus) Read(_ context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.connect(); err != nil {
		return 0, err
	}
	res, err := m.client.ReadInputRegisters(m.cfg.Register, 1)
	if err != nil {
		m.drop()
		return 0, fmt.Errorf("modbus read input register %d: %w", m.cfg.Register, err)
	}
	if len(res) != 2 {
		return 0, fmt.Errorf("modbus: expected 2 bytes, got %d", len(res))
	}
	return DecodeTemp(binary.BigEndian.Uint16(res)), nil
}

// WriteCoil sets a single coil on the same unit, sharing the connection with
// Read. It lets a Modbus relay output ride on the transmitter link.
func (m *Modbus) WriteCoil(addr uint16, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.connect(); err != nil {
		return err
	}
	value := uint16(0x0000)
	if on {
		value = 0xFF00
	}
	if _, err := m.client.WriteSingleCoil(addr, value); err != nil {
		m.drop()
		return fmt.Errorf("modbus write coil %d: %w", addr, err)
	}
	return nil
}

// connect and drop must be called with mu held.
func (m *Modbus) connect() error {
	if m.connected {
		return nil
	}
	if err := m.handler.Connect(); err != nil {
		return fmt.Errorf("modbus connect %s: %w", m.target(), err)
	}
	m.connected = true
	return nil
}

func (m *Modbus) drop() {
	_ = m.handler.Close()
	m.connected = false
}

func (m *Modbus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return m.handler.Close()
}

func (m *Modbus) target() string {
	if m.cfg.Mode == "rtu" {
		return m.cfg.Device
	}
	return m.cfg.Addr
}

// DecodeTemp converts a signed fixed-point register to Celsius.
func DecodeTemp(u uint16) float64 {
	i := int16(u)
	return float64(i) / float64(TemperatureScale)
}

// EncodeTemp is the inverse of DecodeTemp, clamped to the int16 range.
// NaN encodes as 0.
func EncodeTemp(v float64) uint16 {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Max(math.Min(math.Round(v*float64(TemperatureScale)), math.MaxInt16), math.MinInt16)
	return uint16(int16(r))
}
