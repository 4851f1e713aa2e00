package sensor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type MQTTConfig struct {
	Topic  string
	QoS    byte
	MaxAge time.Duration // readings older than this are faults; 0 disables
}

// MQTT keeps the latest reading published by a remote sensor node.
type MQTT struct {
	cfg MQTTConfig

	mu   sync.Mutex
	temp float64
	at   time.Time
	have bool
	now  func() time.Time
}

func NewMQTT(cfg MQTTConfig) (*MQTT, error) {
	if cfg.Topic == "" {
		return nil, ErrMissingTopic
	}
	if cfg.QoS > 1 {
		return nil, ErrInvalidQoS
	}
	return &MQTT{cfg: cfg, now: time.Now}, nil
}

// Subscribe is meant to be installed as (part of) the client's OnConnect
// handler so the subscription survives reconnects.
func (s *MQTT) Subscribe(cl mqtt.Client) {
	token := cl.Subscribe(s.cfg.Topic, s.cfg.QoS, s.onMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("mqtt subscribe %s: %v", s.cfg.Topic, err)
	}
}

func (s *MQTT) onMessage(_ mqtt.Client, msg mqtt.Message) {
	v, err := ParsePayload(msg.Payload())
	if err != nil {
		log.Printf("mqtt sensor %s: %v", msg.Topic(), err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temp = v
	s.at = s.now()
	s.have = true
}

func (s *MQTT) Read(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.have {
		return 0, ErrNoReading
	}
	if age := s.now().Sub(s.at); s.cfg.MaxAge > 0 && age > s.cfg.MaxAge {
		return 0, fmt.Errorf("%w: %s old", ErrStaleReading, age.Truncate(time.Millisecond))
	}
	return s.temp, nil
}

// ParsePayload accepts a bare number or {"temperature": <number>}.
func ParsePayload(b []byte) (float64, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0, errors.New("empty payload")
	}

	var v float64
	if b[0] == '{' {
		var req struct {
			Temperature *float64 `json:"temperature"`
		}
		if err := json.Unmarshal(b, &req); err != nil {
			return 0, err
		}
		if req.Temperature == nil {
			return 0, errors.New("missing field 'temperature'")
		}
		v = *req.Temperature
	} else {
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return 0, err
		}
		v = f
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite temperature %v", v)
	}
	return v, nil
}
