package output

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/log"
)

// MQTT payloads for the key state.
const (
	PayloadDown = "1"
	PayloadUp   = "0"
)

// MQTTConfig describes the broker connection of a networked relay.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
	QoS      byte
	Timeout  time.Duration
}

// MQTT publishes the key state to a topic. Messages are retained so a relay
// that reconnects picks up the current state.
type MQTT struct {
	client  mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
}

// DialMQTT connects to the broker and publishes the inactive state.
func DialMQTT(cfg MQTTConfig) (*MQTT, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt driver needs a broker")
	}
	if cfg.Topic == "" {
		return nil, errors.New("mqtt driver needs a topic")
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("morsesender-%d", time.Now().Unix())
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	opts.SetConnectTimeout(timeout)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnf("mqtt connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker %s: %w", cfg.Broker, token.Error())
	}
	log.Info("connected to mqtt broker " + cfg.Broker)
	return NewMQTT(client, cfg.Topic, cfg.QoS, timeout)
}

// NewMQTT wraps a connected client and publishes the inactive state. The
// client is disconnected if that first publish fails.
func NewMQTT(client mqtt.Client, topic string, qos byte, timeout time.Duration) (*MQTT, error) {
	m := &MQTT{client: client, topic: topic, qos: qos, timeout: timeout}
	if err := m.SetActive(false); err != nil {
		client.Disconnect(250)
		return nil, err
	}
	return m, nil
}

// SetActive implements keyer.Sink.
func (m *MQTT) SetActive(active bool) error {
	payload := PayloadUp
	if active {
		payload = PayloadDown
	}
	token := m.client.Publish(m.topic, m.qos, true, payload)
	if !token.WaitTimeout(m.timeout) {
		return fmt.Errorf("mqtt publish to %s timed out after %s", m.topic, m.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", m.topic, err)
	}
	log.KeyState(DriverMQTT, active)
	return nil
}

// Close publishes the inactive state and disconnects.
func (m *MQTT) Close() error {
	err := m.SetActive(false)
	m.client.Disconnect(250)
	return err
}
