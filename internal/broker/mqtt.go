// Package broker connects the controller to message brokers: MQTT for
// incoming sensor readings and Kafka for outgoing control events.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"aircon_control/internal/control"
	"aircon_control/internal/logger"
	"aircon_control/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ReadingHandler runs one auto-control cycle for a reading.
type ReadingHandler interface {
	Run(ctx context.Context, r models.SensorReading) (control.Decision, error)
}

// readingMessage is the JSON payload published by room sensors.
type readingMessage struct {
	SensorID  string   `json:"sensor_id"`
	Timestamp string   `json:"timestamp"`
	TempC     *float64 `json:"temp_c"`
	Humidity  *float64 `json:"humidity"`
}

var errIncompleteReading = errors.New("reading needs temp_c and humidity")

// DecodeReading parses a sensor payload. A missing or unparsable timestamp
// leaves RecordedAt zero so the repository stamps it.
func DecodeReading(payload []byte) (models.SensorReading, error) {
	var msg readingMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return models.SensorReading{}, fmt.Errorf("decode reading: %w", err)
	}
	if msg.TempC == nil || msg.Humidity == nil {
		return models.SensorReading{}, errIncompleteReading
	}
	r := models.SensorReading{
		SensorID: strings.TrimSpace(msg.SensorID),
		TempC:    *msg.TempC,
		RH:       *msg.Humidity,
	}
	if ts, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
		r.RecordedAt = ts.UTC()
	}
	return r, nil
}

const (
	mqttQoS           = 1
	mqttWaitTimeout   = 10 * time.Second
	readingRunTimeout = 30 * time.Second
)

// NewMQTTClient builds a paho client with auto-reconnect.
func NewMQTTClient(broker, clientID string) mqtt.Client {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(mqttWaitTimeout)
	return mqtt.NewClient(opts)
}

// Subscriber feeds readings from an MQTT topic into a ReadingHandler.
type Subscriber struct {
	client  mqtt.Client
	topic   string
	handler ReadingHandler
	log     *logger.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSubscriber(client mqtt.Client, topic string, h ReadingHandler, log *logger.Logger) *Subscriber {
	return &Subscriber{client: client, topic: topic, handler: h, log: log}
}

// Start connects (if needed) and subscribes. Handlers run with a context
// derived from ctx, cancelled by Stop.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	if !s.client.IsConnected() {
		tok := s.client.Connect()
		if !tok.WaitTimeout(mqttWaitTimeout) {
			return fmt.Errorf("mqtt connect: timeout after %s", mqttWaitTimeout)
		}
		if err := tok.Error(); err != nil {
			return fmt.Errorf("mqtt connect: %w", err)
		}
	}

	tok := s.client.Subscribe(s.topic, mqttQoS, s.onMessage)
	if !tok.WaitTimeout(mqttWaitTimeout) {
		return fmt.Errorf("mqtt subscribe %q: timeout", s.topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %q: %w", s.topic, err)
	}
	s.log.Infow("mqtt subscribed", "topic", s.topic)
	return nil
}

// Stop unsubscribes and disconnects.
func (s *Subscriber) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	if s.client.IsConnected() {
		s.client.Unsubscribe(s.topic).WaitTimeout(mqttWaitTimeout)
		s.client.Disconnect(250)
	}
}

func (s *Subscriber) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func (s *Subscriber) onMessage(_ mqtt.Client, m mqtt.Message) {
	r, err := DecodeReading(m.Payload())
	if err != nil {
		s.log.Warnw("mqtt reading dropped", "topic", m.Topic(), "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(s.runContext(), readingRunTimeout)
	defer cancel()

	d, err := s.handler.Run(ctx, r)
	if err != nil {
		s.log.Errorw("auto-control run failed", "sensor", r.SensorID, "err", err)
		return
	}
	s.log.Debugw("reading handled", "sensor", r.SensorID, "di", d.DI, "outcome", d.Outcome())
}
