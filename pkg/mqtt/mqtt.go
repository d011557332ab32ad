// Package mqtt wraps the shared paho connection used by every agent
// service, adding TLS setup and error-returning publish/subscribe helpers.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"

	mqttLib "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/sater-ops/df-agent/pkg/file"
)

// MQTTClient defines the MQTT operations the agent services depend on.
type MQTTClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) error
	Subscribe(topic string, qos byte, callback mqttLib.MessageHandler) error
	Unsubscribe(topics ...string) error
	Disconnect(quiesce uint)
}

// MqttService implements MQTTClient over a shared paho connection.
type MqttService struct {
	client mqttLib.Client
	logger zerolog.Logger
}

// NewMqttService creates an unconnected MQTT service.
func NewMqttService(logger zerolog.Logger) *MqttService {
	return &MqttService{logger: logger}
}

// Initialize connects to the broker. A non-empty caCertPath switches the
// connection to TLS with the given CA.
func (s *MqttService) Initialize(broker, clientID, caCertPath string, fileClient file.FileOperations) error {
	opts := mqttLib.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)

	if caCertPath != "" {
		caCert, err := fileClient.ReadFileRaw(caCertPath)
		if err != nil {
			return fmt.Errorf("failed to read CA certificate: %w", err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return fmt.Errorf("failed to append CA certificate")
		}

		opts.SetTLSConfig(&tls.Config{RootCAs: caCertPool})
	}

	s.client = mqttLib.NewClient(opts)

	token := s.client.Connect()
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}

	s.logger.Info().Str("broker", broker).Str("client_id", clientID).Msg("Connected to MQTT broker")
	return nil
}

// Publish sends a message and waits for the broker acknowledgement.
func (s *MqttService) Publish(topic string, qos byte, retained bool, payload interface{}) error {
	token := s.client.Publish(topic, qos, retained, payload)
	token.Wait()
	return token.Error()
}

// Subscribe registers a message handler for a topic.
func (s *MqttService) Subscribe(topic string, qos byte, callback mqttLib.MessageHandler) error {
	token := s.client.Subscribe(topic, qos, callback)
	token.Wait()
	return token.Error()
}

// Unsubscribe removes subscriptions for the given topics.
func (s *MqttService) Unsubscribe(topics ...string) error {
	token := s.client.Unsubscribe(topics...)
	token.Wait()
	return token.Error()
}

// Disconnect closes the connection after waiting up to quiesce
// milliseconds for in-flight work.
func (s *MqttService) Disconnect(quiesce uint) {
	s.client.Disconnect(quiesce)
}
