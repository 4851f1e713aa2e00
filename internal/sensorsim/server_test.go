package sensorsim

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goburrow/modbus"

	"github.com/Agrid-Dev/thermoguard/internal/actuator"
	"github.com/Agrid-Dev/thermoguard/internal/sensor"
	"github.com/Agrid-Dev/thermoguard/internal/testutil"
	"github.com/Agrid-Dev/thermoguard/internal/thermostat"
)

type fakeRoom struct {
	mu       sync.Mutex
	temp     float64
	heaterOn bool
	readErr  error
	reads    int
}

func (r *fakeRoom) Read(context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	return r.temp, r.readErr
}

func (r *fakeRoom) Temperature() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.temp
}

func (r *fakeRoom) SetTemperature(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.temp = v
}

func (r *fakeRoom) HeaterOn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.heaterOn
}

func (r *fakeRoom) SetHeater(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heaterOn = on
}

func findFreeTCPAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("free port: %v", err)
	}
	a := l.Addr().String()
	_ = l.Close()
	return a
}

func startServer(t *testing.T, room Room) modbus.Client {
	t.Helper()
	addr := findFreeTCPAddr(t)
	srv := New(room, Config{Addr: addr})

	go func() {
		_ = srv.Run(t.Context())
	}()
	time.Sleep(50 * time.Millisecond)

	handler := modbus.NewTCPClientHandler(addr)
	handler.Timeout = time.Second
	if err := handler.Connect(); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = handler.Close() })
	return modbus.NewClient(handler)
}

func TestServerRegisters(t *testing.T) {
	room := &fakeRoom{temp: 21.25}
	client := startServer(t, room)

	res, err := client.ReadInputRegisters(0, 1)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	if got := sensor.DecodeTemp(binary.BigEndian.Uint16(res)); got != 21.25 {
		t.Fatalf("IR0 = %v, want 21.25", got)
	}

	if _, err := client.WriteSingleRegister(0, sensor.EncodeTemp(-3.5)); err != nil {
		t.Fatalf("write register: %v", err)
	}
	if got := room.Temperature(); got != -3.5 {
		t.Fatalf("room temp = %v, want -3.5", got)
	}
	res, err = client.ReadHoldingRegisters(0, 1)
	if err != nil {
		t.Fatalf("read holding: %v", err)
	}
	if got := sensor.DecodeTemp(binary.BigEndian.Uint16(res)); got != -3.5 {
		t.Fatalf("HR0 = %v, want -3.5", got)
	}

	if _, err := client.WriteSingleCoil(0, 0xFF00); err != nil {
		t.Fatalf("write coil: %v", err)
	}
	if !room.HeaterOn() {
		t.Fatal("heater should be on")
	}
	res, err = client.ReadCoils(0, 1)
	if err != nil {
		t.Fatalf("read coils: %v", err)
	}
	if len(res) != 1 || res[0] != 0x01 {
		t.Fatalf("coil = %v, want [1]", res)
	}
}

func TestServerRejectsOtherAddresses(t *testing.T) {
	client := startServer(t, &fakeRoom{})

	if _, err := client.ReadInputRegisters(1, 1); err == nil {
		t.Fatal("expected exception for IR1")
	}
	if _, err := client.ReadInputRegisters(0, 2); err == nil {
		t.Fatal("expected exception for two registers")
	}
	if _, err := client.WriteSingleCoil(3, 0xFF00); err == nil {
		t.Fatal("expected exception for coil 3")
	}
}

func TestServerReportsRoomFault(t *testing.T) {
	room := &fakeRoom{readErr: errors.New("probe unplugged")}
	client := startServer(t, room)

	_, err := client.ReadInputRegisters(0, 1)
	var mbErr *modbus.ModbusError
	if !errors.As(err, &mbErr) {
		t.Fatalf("expected ModbusError, got %v", err)
	}
	if mbErr.ExceptionCode != modbus.ExceptionCodeServerDeviceFailure {
		t.Fatalf("exception = %d", mbErr.ExceptionCode)
	}
}

// End to end: the modbus sensor driver reads the simulated room through the server.
func TestModbusSensorAgainstServer(t *testing.T) {
	room, err := sensor.NewSimulated(sensor.SimulatedParams{InitialTemperature: 23.5})
	if err != nil {
		t.Fatal(err)
	}
	addr := findFreeTCPAddr(t)
	go func() {
		_ = New(room, Config{Addr: addr}).Run(t.Context())
	}()
	time.Sleep(50 * time.Millisecond)

	src, err := sensor.NewModbus(sensor.ModbusConfig{Addr: addr, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	got, err := src.Read(t.Context())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 23.5 {
		t.Fatalf("temperature = %v, want 23.5", got)
	}
}

// Closed loop: the sensing step reads IR0 and drives coil 0 over one link.
func TestSensingLoopClosesOverServer(t *testing.T) {
	room, err := sensor.NewSimulated(sensor.SimulatedParams{InitialTemperature: 20})
	if err != nil {
		t.Fatal(err)
	}
	addr := findFreeTCPAddr(t)
	go func() {
		_ = New(room, Config{Addr: addr}).Run(t.Context())
	}()
	time.Sleep(50 * time.Millisecond)

	link, err := sensor.NewModbus(sensor.ModbusConfig{Addr: addr, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer link.Close()
	relay, err := actuator.NewModbus(link, 0)
	if err != nil {
		t.Fatal(err)
	}

	th := thermostat.New()
	lines := &testutil.Lines{}
	loop := thermostat.NewSensingLoop(th, link, relay, lines)

	if err := loop.Step(t.Context()); err != nil {
		t.Fatalf("step: %v", err)
	}
	if s := th.Get(); !s.HeaterOn || s.State != thermostat.StateHeating {
		t.Fatalf("snapshot = %+v, want heating", s)
	}
	if !room.HeaterOn() {
		t.Fatal("room heater should be on after a cold reading")
	}

	room.SetTemperature(31)
	if err := loop.Step(t.Context()); err != nil {
		t.Fatalf("step: %v", err)
	}
	if s := th.Get(); s.HeaterOn || s.State != thermostat.StateOverheat {
		t.Fatalf("snapshot = %+v, want overheat", s)
	}
	if room.HeaterOn() {
		t.Fatal("room heater should be off after an overheat")
	}
	for _, l := range lines.All() {
		if strings.Contains(l, "error") {
			t.Fatalf("unexpected error line %q", l)
		}
	}
}
