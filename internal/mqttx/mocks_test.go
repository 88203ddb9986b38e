package mqttx

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/mock"

	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/logger"
)

// mockClient is a testify mock for the broker client.
type mockClient struct{ mock.Mock }

func (m *mockClient) IsConnected() bool       { return m.Called().Bool(0) }
func (m *mockClient) Connect() mqtt.Token     { return m.Called().Get(0).(mqtt.Token) }
func (m *mockClient) Disconnect(quiesce uint) { m.Called(quiesce) }

func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	return m.Called(topic, qos, retained, payload).Get(0).(mqtt.Token)
}

func (m *mockClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	return m.Called(topic, qos, callback).Get(0).(mqtt.Token)
}

// stubToken is a pre-resolved token: timeout simulates a WaitTimeout that
// never sees the broker event.
type stubToken struct {
	err     error
	timeout bool
}

func (t *stubToken) Wait() bool                     { return !t.timeout }
func (t *stubToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *stubToken) Error() error                   { return t.err }
func (t *stubToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// gateToken blocks WaitTimeout until released, to hold a connect attempt
// in flight while concurrent acquirers pile up.
type gateToken struct {
	release chan struct{}
}

func newGateToken() *gateToken { return &gateToken{release: make(chan struct{})} }

func (t *gateToken) Wait() bool                     { <-t.release; return true }
func (t *gateToken) WaitTimeout(time.Duration) bool { <-t.release; return true }
func (t *gateToken) Done() <-chan struct{}          { return t.release }
func (t *gateToken) Error() error                   { return nil }

// fakeMessage implements mqtt.Message for dispatch tests.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (f *fakeMessage) Duplicate() bool   { return false }
func (f *fakeMessage) Qos() byte         { return qosAtLeastOnce }
func (f *fakeMessage) Retained() bool    { return false }
func (f *fakeMessage) Topic() string     { return f.topic }
func (f *fakeMessage) MessageID() uint16 { return 0 }
func (f *fakeMessage) Payload() []byte   { return f.payload }
func (f *fakeMessage) Ack()              {}

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		BrokerURL:            "tcp://broker.test:1883",
		ClientIDPrefix:       "test",
		Keepalive:            30 * time.Second,
		ConnectTimeout:       100 * time.Millisecond,
		ReconnectPeriod:      time.Second,
		MaxReconnectAttempts: 5,
		PublishTimeout:       time.Second,
		SubscribeTimeout:     time.Second,
	}
}

// newTestManager wires the factory to always hand out the given client.
func newTestManager(client Client) *Manager {
	m := NewManager(testConfig(), logger.New("test"))
	m.newClient = func(*mqtt.ClientOptions) Client { return client }
	return m
}
