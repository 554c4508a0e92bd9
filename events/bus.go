// Package events carries session lifecycle notifications between the client
// internals and application code.
package events

import (
	"sync"

	"github.com/kochabx/flowclient/log"
)

// Topics published by the session and request layers.
const (
	// TopicSessionExpired fires once per session when it can no longer be
	// renewed. Subscribers typically route the user back to login.
	TopicSessionExpired = "session-expired"

	// TopicRequestFailed fires when a request exhausts its retry and
	// replay options.
	TopicRequestFailed = "request-failed"

	// TopicNetworkUnreachable fires on transport-level failures.
	TopicNetworkUnreachable = "network-unreachable"
)

// Event is the payload delivered to subscribers.
type Event struct {
	Topic string
	// Err is the failure that triggered the event, nil for lifecycle
	// notifications like session expiry.
	Err error
	// Metadata carries request context such as method and path.
	Metadata map[string]string
}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(Event)

// Bus is a synchronous, best-effort publish/subscribe hub. Delivery order
// follows subscription order. A panicking subscriber is isolated, logged,
// and never prevents delivery to the rest.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for a topic. There is no unsubscribe; the
// bus lives as long as the client that owns it.
func (b *Bus) Subscribe(topic string, h Handler) {
	if h == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Publish delivers the event to every subscriber of its topic. Publishing
// to a topic with no subscribers is a no-op.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.subs[e.Topic]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("event subscriber panic: topic=%s panic=%v", e.Topic, r)
		}
	}()
	h(e)
}
