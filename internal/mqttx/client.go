package mqttx

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client is the subset of the paho client the sync layer uses. Narrowing
// the interface lets tests substitute a mock while production code runs the
// real client.
type Client interface {
	IsConnected() bool
	Connect() mqtt.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

var _ Client = (mqtt.Client)(nil)

// clientFactory builds a Client from options; overridden in tests.
type clientFactory func(opts *mqtt.ClientOptions) Client

func defaultClientFactory(opts *mqtt.ClientOptions) Client {
	return mqtt.NewClient(opts)
}
