// Package sensorsim serves a simulated room as a Modbus-TCP temperature
// transmitter, for bench runs of the modbus sensor driver.
//
// Register map:
//
//	IR 0   room temperature, int16 x100 (read advances the model)
//	HR 0   room temperature, writable to force a value
//	coil 0 heater input
package sensorsim

import (
	"context"
	"encoding/binary"
	"fmt"

	mbserver "github.com/tbrandon/mbserver"

	"github.com/Agrid-Dev/thermoguard/internal/sensor"
)

// Room is the model behind the registers. *sensor.Simulated satisfies it.
type Room interface {
	Read(ctx context.Context) (float64, error)
	Temperature() float64
	SetTemperature(v float64)
	HeaterOn() bool
	SetHeater(on bool)
}

type Config struct {
	Addr string
}

type Server struct {
	room Room
	cfg  Config
	serv *mbserver.Server
}

func New(room Room, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:1502"
	}
	return &Server{room: room, cfg: cfg}
}

// Run listens on cfg.Addr and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	serv := mbserver.NewServer()
	s.serv = serv

	// Handlers go in before ListenTCP; mbserver reads the table from its own goroutines.
	serv.RegisterFunctionHandler(1, s.readCoils)
	serv.RegisterFunctionHandler(3, s.readHolding)
	serv.RegisterFunctionHandler(4, s.readInput)
	serv.RegisterFunctionHandler(5, s.writeCoil)
	serv.RegisterFunctionHandler(6, s.writeRegister)

	if err := serv.ListenTCP(s.cfg.Addr); err != nil {
		return fmt.Errorf("mbserver listen tcp %s: %w", s.cfg.Addr, err)
	}

	<-ctx.Done()
	serv.Close()
	return ctx.Err()
}

// addrQty decodes the start/quantity header and only accepts a single
// point at address 0.
func addrQty(frame mbserver.Framer) *mbserver.Exception {
	data := frame.GetData()
	if len(data) < 4 {
		return &mbserver.IllegalDataValue
	}
	start := binary.BigEndian.Uint16(data[0:2])
	qty := binary.BigEndian.Uint16(data[2:4])
	if qty == 0 || qty > 125 {
		return &mbserver.IllegalDataValue
	}
	if start != 0 || qty != 1 {
		return &mbserver.IllegalDataAddress
	}
	return nil
}

func registerResponse(v uint16) []byte {
	resp := make([]byte, 3)
	resp[0] = 2
	binary.BigEndian.PutUint16(resp[1:3], v)
	return resp
}

func (s *Server) readCoils(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	if exc := addrQty(frame); exc != nil {
		return []byte{}, exc
	}
	coil := byte(0)
	if s.room.HeaterOn() {
		coil = 0x01
	}
	return []byte{1, coil}, &mbserver.Success
}

func (s *Server) readHolding(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	if exc := addrQty(frame); exc != nil {
		return []byte{}, exc
	}
	return registerResponse(sensor.EncodeTemp(s.room.Temperature())), &mbserver.Success
}

func (s *Server) readInput(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	if exc := addrQty(frame); exc != nil {
		return []byte{}, exc
	}
	t, err := s.room.Read(context.Background())
	if err != nil {
		return []byte{}, &mbserver.SlaveDeviceFailure
	}
	return registerResponse(sensor.EncodeTemp(t)), &mbserver.Success
}

func (s *Server) writeCoil(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	data := frame.GetData()
	if len(data) < 4 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	if binary.BigEndian.Uint16(data[0:2]) != 0 {
		return []byte{}, &mbserver.IllegalDataAddress
	}

	switch binary.BigEndian.Uint16(data[2:4]) {
	case 0x0000:
		s.room.SetHeater(false)
	case 0xFF00:
		s.room.SetHeater(true)
	default:
		return []byte{}, &mbserver.IllegalDataValue
	}

	// echo request (address + value)
	resp := make([]byte, 4)
	copy(resp, data[0:4])
	return resp, &mbserver.Success
}

func (s *Server) writeRegister(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	data := frame.GetData()
	if len(data) < 4 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	if binary.BigEndian.Uint16(data[0:2]) != 0 {
		return []byte{}, &mbserver.IllegalDataAddress
	}
	s.room.SetTemperature(sensor.DecodeTemp(binary.BigEndian.Uint16(data[2:4])))

	resp := make([]byte, 4)
	copy(resp, data[0:4])
	return resp, &mbserver.Success
}
