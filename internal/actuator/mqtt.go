package actuator

import mqtt "github.com/eclipse/paho.mqtt.golang"

type MQTTConfig struct {
	Topic      string // e.g. "cmnd/heater-relay/POWER"
	QoS        byte
	Retain     bool
	PayloadOn  string
	PayloadOff string
}

// MQTT commands a network relay by publishing to its command topic.
type MQTT struct {
	cfg    MQTTConfig
	client mqtt.Client
}

func NewMQTT(client mqtt.Client, cfg MQTTConfig) (*MQTT, error) {
	if cfg.Topic == "" {
		return nil, ErrMissingTopic
	}
	if cfg.QoS > 1 {
		return nil, ErrInvalidQoS
	}
	if cfg.PayloadOn == "" {
		cfg.PayloadOn = "ON"
	}
	if cfg.PayloadOff == "" {
		cfg.PayloadOff = "OFF"
	}
	return &MQTT{cfg: cfg, client: client}, nil
}

// Set publishes without waiting for the token.
func (a *MQTT) Set(on bool) error {
	payload := a.cfg.PayloadOff
	if on {
		payload = a.cfg.PayloadOn
	}
	a.client.Publish(a.cfg.Topic, a.cfg.QoS, a.cfg.Retain, payload)
	return nil
}
