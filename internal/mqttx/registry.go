package mqttx

import (
	"encoding/json"
	"sync"
)

// Callback receives the parsed payload of one inbound message.
type Callback func(payload json.RawMessage)

// registry maps topic names to registered callbacks. Registration is
// decoupled from the broker-level subscription: the caller issues at most
// one subscribe per topic, however many callbacks are added.
type registry struct {
	mu     sync.Mutex
	nextID int
	topics map[string]map[int]Callback
}

func newRegistry() *registry {
	return &registry{topics: make(map[string]map[int]Callback)}
}

// register adds cb under topic and reports whether it is the first callback
// for that topic.
func (r *registry) register(topic string, cb Callback) (id int, first bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.topics[topic]
	if !ok {
		set = make(map[int]Callback)
		r.topics[topic] = set
	}
	r.nextID++
	set[r.nextID] = cb
	return r.nextID, !ok
}

// unregister removes one callback. The topic entry is dropped when its last
// callback goes, so a later register is "first" again.
func (r *registry) unregister(topic string, id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.topics[topic]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(r.topics, topic)
		}
	}
}

// topicNames returns every topic with at least one registered callback.
func (r *registry) topicNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.topics))
	for topic := range r.topics {
		out = append(out, topic)
	}
	return out
}

// callbacks returns a snapshot of the callbacks registered for topic, so
// dispatch runs outside the lock.
func (r *registry) callbacks(topic string) []Callback {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.topics[topic]
	out := make([]Callback, 0, len(set))
	for _, cb := range set {
		out = append(out, cb)
	}
	return out
}
