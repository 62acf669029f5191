// Package broadcast fans daemon events out to local and remote listeners.
package broadcast

import (
	"context"
	"errors"
	"sync"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

// Hub delivers events to in-process subscribers such as SSE streams. Slow
// subscribers miss events instead of blocking the sender.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan domain.Event
	next int
}

var _ ports.Broadcaster = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan domain.Event)}
}

// Subscribe returns a channel of events and a function that cancels the
// subscription and closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, buffer)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast implements ports.Broadcaster.
func (h *Hub) Broadcast(ctx context.Context, ev domain.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Fanout sends every event to all broadcasters and joins their errors.
type Fanout []ports.Broadcaster

func (f Fanout) Broadcast(ctx context.Context, ev domain.Event) error {
	var errs []error
	for _, b := range f {
		if b == nil {
			continue
		}
		if err := b.Broadcast(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
