package mqttx

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"restaurant-dashboard/internal/config"
	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/logger"
)

// Topic names are agreed with the kiosk frontend out of band.
const (
	TopicCategories = "menu/category"
	TopicItems      = "menu/update"
	TopicOrders     = "menu/order"
)

// qosAtLeastOnce is used for every publish and subscription; duplicates are
// tolerated because staged-order writes are idempotent.
const qosAtLeastOnce byte = 1

// MenuSource provides the current menu state for snapshot publishes.
type MenuSource interface {
	ListCategories(ctx context.Context) ([]domain.MenuCategory, error)
	ListItems(ctx context.Context) ([]domain.MenuItem, error)
}

// OrderSink ingests inbound kiosk order events.
type OrderSink interface {
	Process(ctx context.Context, ev domain.OrderEvent) (*domain.StagedOrder, error)
}

// Syncer is the live menu/order synchronization layer: it pushes full menu
// snapshots to the broker whenever menu data changes and routes inbound
// order events into the staging store.
type Syncer struct {
	cfg     config.MQTTConfig
	log     *logger.Logger
	manager *Manager
	reg     *registry
	menu    MenuSource
	orders  OrderSink

	initMu      sync.Mutex
	initialized bool
}

func NewSyncer(cfg config.MQTTConfig, log *logger.Logger, manager *Manager, menu MenuSource, orders OrderSink) *Syncer {
	s := &Syncer{
		cfg:     cfg,
		log:     log,
		manager: manager,
		reg:     newRegistry(),
		menu:    menu,
		orders:  orders,
	}
	manager.OnConnect(s.resubscribe)
	return s
}

// PublishCategorySnapshot sends the complete current category list. Each
// message replaces the receiver's prior view.
func (s *Syncer) PublishCategorySnapshot(ctx context.Context, categories []domain.MenuCategory) error {
	return s.publish(ctx, TopicCategories, categories)
}

// PublishItemSnapshot sends the complete current menu item list.
func (s *Syncer) PublishItemSnapshot(ctx context.Context, items []domain.MenuItem) error {
	return s.publish(ctx, TopicItems, items)
}

func (s *Syncer) publish(ctx context.Context, topic string, payload any) error {
	client, err := s.manager.Acquire(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublish, topic, err)
	}

	token := client.Publish(topic, qosAtLeastOnce, false, body)
	if !token.WaitTimeout(s.cfg.PublishTimeout) {
		return fmt.Errorf("%w: %s: no ack within %s", ErrPublish, topic, s.cfg.PublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublish, topic, err)
	}

	s.log.Debug("mqtt_published", map[string]any{"topic": topic, "bytes": len(body)})
	return nil
}

// Subscribe registers cb for a topic. The first callback on a topic issues
// exactly one broker-level subscribe; later registrations only join the
// local set. The returned function removes only the callback; the broker
// subscription stays for the process lifetime.
func (s *Syncer) Subscribe(ctx context.Context, topic string, cb Callback) (func(), error) {
	id, first := s.reg.register(topic, cb)
	if first {
		if err := s.subscribeBroker(ctx, topic); err != nil {
			s.reg.unregister(topic, id)
			return nil, err
		}
	}
	return func() { s.reg.unregister(topic, id) }, nil
}

func (s *Syncer) subscribeBroker(ctx context.Context, topic string) error {
	client, err := s.manager.Acquire(ctx)
	if err != nil {
		return err
	}

	token := client.Subscribe(topic, qosAtLeastOnce, s.handleMessage)
	if !token.WaitTimeout(s.cfg.SubscribeTimeout) {
		return fmt.Errorf("%w: %s: no ack within %s", ErrSubscribe, topic, s.cfg.SubscribeTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSubscribe, topic, err)
	}

	s.log.Info("mqtt_subscribed", map[string]any{"topic": topic})
	return nil
}

// resubscribe re-issues the broker subscription for every registered topic
// on a newly established connection. Sessions are clean, so the broker
// forgets subscriptions whenever the connection is replaced, whether by an
// automatic reconnect or by a fresh dial after the old handle was
// terminated. Failures are logged; the next reconnect retries.
func (s *Syncer) resubscribe(client Client) {
	for _, topic := range s.reg.topicNames() {
		token := client.Subscribe(topic, qosAtLeastOnce, s.handleMessage)
		if !token.WaitTimeout(s.cfg.SubscribeTimeout) {
			s.log.Error("mqtt_resubscribe_failed",
				fmt.Errorf("%w: %s: no ack within %s", ErrSubscribe, topic, s.cfg.SubscribeTimeout),
				map[string]any{"topic": topic})
			continue
		}
		if err := token.Error(); err != nil {
			s.log.Error("mqtt_resubscribe_failed",
				fmt.Errorf("%w: %s: %v", ErrSubscribe, topic, err),
				map[string]any{"topic": topic})
			continue
		}
		s.log.Info("mqtt_subscribed", map[string]any{"topic": topic})
	}
}

// handleMessage demultiplexes every inbound message by topic and fans it
// out to the registered callbacks. A payload that fails to parse is logged
// and dropped without affecting other messages or topics.
func (s *Syncer) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var payload json.RawMessage
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		s.log.Error("mqtt_message_parse_failed",
			fmt.Errorf("%w: %v", ErrParse, err),
			map[string]any{"topic": msg.Topic()})
		return
	}
	for _, cb := range s.reg.callbacks(msg.Topic()) {
		cb(payload)
	}
}

// Initialize publishes both menu snapshots once and establishes the order
// subscription. Safe to call repeatedly: only the first successful call has
// effect, and a failed call leaves the flag unset so the next one retries.
func (s *Syncer) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.initialized {
		return nil
	}

	categories, err := s.menu.ListCategories(ctx)
	if err != nil {
		return err
	}
	items, err := s.menu.ListItems(ctx)
	if err != nil {
		return err
	}

	// Kiosks only render items attached to a category.
	valid := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if item.MenuCategoryID != nil {
			valid = append(valid, item)
		}
	}

	if err := s.PublishCategorySnapshot(ctx, categories); err != nil {
		return err
	}
	if err := s.PublishItemSnapshot(ctx, valid); err != nil {
		return err
	}
	if _, err := s.Subscribe(ctx, TopicOrders, s.ingestOrder); err != nil {
		return err
	}

	s.initialized = true
	s.log.Info("sync_initialized", map[string]any{
		"categories": len(categories),
		"items":      len(valid),
	})
	return nil
}

// ingestOrder decodes one inbound order payload and hands it to the order
// processor. Errors are logged and contained: one bad order never stops
// processing of subsequent messages.
func (s *Syncer) ingestOrder(payload json.RawMessage) {
	var ev domain.OrderEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		s.log.Error("order_decode_failed", fmt.Errorf("%w: %v", ErrParse, err), nil)
		return
	}

	// The processor bounds its own persistence calls.
	if _, err := s.orders.Process(context.Background(), ev); err != nil {
		s.log.Error("order_process_failed", err, map[string]any{"order_id": ev.ID})
		return
	}
	s.log.Info("order_staged", map[string]any{"order_id": ev.ID})
}
