package mqttx

import (
	"context"
	"fmt"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/logger"
)

// Manager owns the single shared broker connection. The connection is
// dialed lazily on first Acquire and recreated whenever it is found dead.
// Exactly one connect attempt is in flight at a time; concurrent acquirers
// wait on that attempt and share its result.
type Manager struct {
	cfg       config.MQTTConfig
	log       *logger.Logger
	newClient clientFactory

	mu         sync.Mutex
	client     Client
	attempt    *connectAttempt
	reconnects int
	onUp       func(Client)
}

type connectAttempt struct {
	done   chan struct{}
	client Client
	err    error
}

func NewManager(cfg config.MQTTConfig, log *logger.Logger) *Manager {
	return &Manager{cfg: cfg, log: log, newClient: defaultClientFactory}
}

// OnConnect registers fn to run every time a connection is established,
// including the client's automatic reconnects. Set once during wiring,
// before the first Acquire.
func (m *Manager) OnConnect(fn func(Client)) {
	m.mu.Lock()
	m.onUp = fn
	m.mu.Unlock()
}

// Acquire returns a ready broker connection, dialing one if needed. It is
// safe to call from any number of goroutines.
func (m *Manager) Acquire(ctx context.Context) (Client, error) {
	m.mu.Lock()
	if m.client != nil && m.client.IsConnected() {
		c := m.client
		m.mu.Unlock()
		return c, nil
	}
	if m.attempt == nil {
		if m.client != nil {
			// Stale handle: tear it down, errors from the old client don't matter.
			m.client.Disconnect(0)
			m.client = nil
		}
		a := &connectAttempt{done: make(chan struct{})}
		m.attempt = a
		go m.connect(a)
	}
	a := m.attempt
	m.mu.Unlock()

	select {
	case <-a.done:
		return a.client, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) connect(a *connectAttempt) {
	var client Client
	opts := mqtt.NewClientOptions().
		AddBroker(m.cfg.BrokerURL).
		SetClientID(m.clientID()).
		SetKeepAlive(m.cfg.Keepalive).
		SetCleanSession(true).
		SetConnectTimeout(m.cfg.ConnectTimeout).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(m.cfg.ReconnectPeriod).
		SetConnectionLostHandler(m.onConnectionLost).
		SetReconnectingHandler(m.onReconnecting).
		SetOnConnectHandler(func(mqtt.Client) { m.handleConnected(client) })
	client = m.newClient(opts)

	m.log.Info("mqtt_connecting", map[string]any{"broker": m.cfg.BrokerURL})

	token := client.Connect()
	if !token.WaitTimeout(m.cfg.ConnectTimeout) {
		// No connect event within the bound: force-terminate the in-flight handle.
		client.Disconnect(0)
		m.finish(a, nil, fmt.Errorf("%w: no connect within %s", ErrConnection, m.cfg.ConnectTimeout))
		return
	}
	if err := token.Error(); err != nil && !client.IsConnected() {
		// An error event after the client reports connected is a late
		// duplicate and is not surfaced.
		client.Disconnect(0)
		m.finish(a, nil, fmt.Errorf("%w: %v", ErrConnection, err))
		return
	}

	m.log.Info("mqtt_connected", map[string]any{"broker": m.cfg.BrokerURL})
	m.finish(a, client, nil)
}

func (m *Manager) finish(a *connectAttempt, c Client, err error) {
	m.mu.Lock()
	if c != nil {
		m.client = c
		m.reconnects = 0
	}
	m.attempt = nil
	m.mu.Unlock()

	a.client = c
	a.err = err
	close(a.done)
}

// handleConnected runs on every established connection, the initial dial
// and each automatic reconnect. Recovering a drop resets the attempt
// counter, and the registered hook gets the live handle so broker-side
// state lost with the old connection can be rebuilt.
func (m *Manager) handleConnected(c Client) {
	m.mu.Lock()
	m.reconnects = 0
	fn := m.onUp
	m.mu.Unlock()

	if fn != nil {
		fn(c)
	}
}

// onConnectionLost handles close events on an established connection. While
// the attempt counter is below the threshold the paho client's own
// reconnect loop keeps retrying with the configured period; once exhausted
// the handle is terminated for good and the next Acquire starts over.
func (m *Manager) onConnectionLost(_ mqtt.Client, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.reconnects >= m.cfg.MaxReconnectAttempts {
		m.log.Error("mqtt_reconnect_exhausted", err, map[string]any{
			"max_attempts": m.cfg.MaxReconnectAttempts,
		})
		if m.client != nil {
			m.client.Disconnect(0)
			m.client = nil
		}
		return
	}
	m.reconnects++
	m.log.Info("mqtt_connection_lost", map[string]any{
		"attempt":      m.reconnects,
		"max_attempts": m.cfg.MaxReconnectAttempts,
	})
}

func (m *Manager) onReconnecting(_ mqtt.Client, _ *mqtt.ClientOptions) {
	m.mu.Lock()
	attempt := m.reconnects
	m.mu.Unlock()
	m.log.Info("mqtt_reconnecting", map[string]any{
		"attempt":      attempt,
		"max_attempts": m.cfg.MaxReconnectAttempts,
	})
}

func (m *Manager) clientID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s", m.cfg.ClientIDPrefix, suffix)
}
