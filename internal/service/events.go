package service

import (
	"sync"
	"time"

	"zapdispatch/internal/constants"
)

type EventType string

const (
	EventSent  EventType = "sent"
	EventError EventType = "error"
)

// Event is a dispatch outcome pushed to connected dashboard sessions. Error
// events carry the user-visible failure text (the send channel's response
// body verbatim when available).
type Event struct {
	Type     EventType `json:"type"`
	Kind     string    `json:"kind"`
	TenantID string    `json:"tenantId"`
	Target   string    `json:"target"`
	Message  string    `json:"message"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

// EventHub fans dispatch outcomes out to subscribers. Slow subscribers drop
// events rather than block the dispatcher.
type EventHub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its channel along with an
// unsubscribe function.
func (h *EventHub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, constants.DefaultEventBufferSize)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	once := sync.Once{}
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe
}

// Publish delivers an event to every subscriber without blocking.
func (h *EventHub) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			// Subscriber buffer full; drop
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *EventHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
