package sensor

import (
	"context"
	"math"
	"net"
	"testing"
	"time"

	mbserver "github.com/tbrandon/mbserver"
)

func findFreeTCPAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("free port: %v", err)
	}
	a := l.Addr().String()
	_ = l.Close()
	return a
}

func TestEncodeDecodeTemp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{21.25, 21.25},
		{-5.5, -5.5},
		{0, 0},
		{1000, 327.67}, // clamped to int16
		{-1000, -327.68},
		{1e19, 327.67},
		{-1e19, -327.68},
		{math.Inf(1), 327.67},
		{math.Inf(-1), -327.68},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := DecodeTemp(EncodeTemp(tt.in)); got != tt.want {
			t.Errorf("DecodeTemp(EncodeTemp(%v)) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewModbusValidation(t *testing.T) {
	if _, err := NewModbus(ModbusConfig{Mode: "ascii"}); err != ErrInvalidModbusMode {
		t.Fatalf("expected ErrInvalidModbusMode, got %v", err)
	}
	m, err := NewModbus(ModbusConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if m.cfg.Addr != "127.0.0.1:1502" || m.cfg.UnitID != 1 || m.cfg.Timeout != time.Second {
		t.Fatalf("unexpected defaults: %+v", m.cfg)
	}
	r, err := NewModbus(ModbusConfig{Mode: "rtu"})
	if err != nil {
		t.Fatal(err)
	}
	if r.cfg.Device != "/dev/ttyUSB0" || r.cfg.BaudRate != 9600 {
		t.Fatalf("unexpected rtu defaults: %+v", r.cfg)
	}
}

func TestModbusReadsInputRegister(t *testing.T) {
	addr := findFreeTCPAddr(t)

	serv := mbserver.NewServer()
	serv.InputRegisters[3] = EncodeTemp(23.75)
	if err := serv.ListenTCP(addr); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer serv.Close()

	m, err := NewModbus(ModbusConfig{Addr: addr, Register: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	got, err := m.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 23.75 {
		t.Fatalf("Read = %v, want 23.75", got)
	}
}

func TestModbusReadFaultsWithoutServer(t *testing.T) {
	m, err := NewModbus(ModbusConfig{Addr: findFreeTCPAddr(t), Timeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Read(context.Background()); err == nil {
		t.Fatal("expected error with no server listening")
	}
	if m.connected {
		t.Fatal("expected disconnected state after failure")
	}
}

func TestModbusWriteCoilSharesConnection(t *testing.T) {
	addr := findFreeTCPAddr(t)

	serv := mbserver.NewServer()
	serv.InputRegisters[0] = EncodeTemp(22)
	if err := serv.ListenTCP(addr); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer serv.Close()

	m, err := NewModbus(ModbusConfig{Addr: addr})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := m.WriteCoil(2, true); err != nil {
		t.Fatalf("WriteCoil on: %v", err)
	}
	if serv.Coils[2] == 0 {
		t.Fatal("expected coil 2 set")
	}
	if _, err := m.Read(context.Background()); err != nil {
		t.Fatalf("Read after WriteCoil: %v", err)
	}
	if err := m.WriteCoil(2, false); err != nil {
		t.Fatalf("WriteCoil off: %v", err)
	}
	if serv.Coils[2] != 0 {
		t.Fatal("expected coil 2 cleared")
	}
}

func TestModbusWriteCoilFaultsWithoutServer(t *testing.T) {
	m, err := NewModbus(ModbusConfig{Addr: findFreeTCPAddr(t), Timeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.WriteCoil(0, true); err == nil {
		t.Fatal("expected error with no server listening")
	}
	if m.connected {
		t.Fatal("expected disconnected state after failure")
	}
}
