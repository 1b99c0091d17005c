package reminder

import (
	"context"
	"log"
	"sync"
)

// Handler reacts to a delivered reminder on a given channel.
type Handler func(ctx context.Context, d Delivery)

// Hub fans deliveries out to channel handlers and to stream subscribers.
type Hub struct {
	mu     sync.RWMutex
	routes map[string][]Handler
	subs   map[int]chan Delivery
	nextID int
}

func NewHub() *Hub {
	return &Hub{
		routes: make(map[string][]Handler),
		subs:   make(map[int]chan Delivery),
	}
}

func (h *Hub) Handle(channel string, fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes[channel] = append(h.routes[channel], fn)
}

// Subscribe returns a buffered feed of deliveries and a func that closes it.
func (h *Hub) Subscribe(buffer int) (<-chan Delivery, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	ch := make(chan Delivery, buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Publish runs the channel handlers, then offers the delivery to every
// subscriber. A subscriber with a full buffer misses the delivery.
func (h *Hub) Publish(d Delivery) {
	log.Printf("reminder %s fired on %s: %s", d.ID, d.Channel, d.Title)

	h.mu.RLock()
	handlers := append([]Handler(nil), h.routes[d.Channel]...)
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(context.Background(), d)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- d:
		default:
			log.Printf("Warning: subscriber %d is full, dropping reminder %s", id, d.ID)
		}
	}
}
