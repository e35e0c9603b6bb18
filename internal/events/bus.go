package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event represents a system event with typed data
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      EventData `json:"data"`
}

// Handler is a subscriber callback. Handlers run synchronously on the
// emitter's goroutine and must not block.
type Handler func(*Event)

// Bus routes events from emitters to subscribers
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[EventType]map[int]Handler
	log      zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[EventType]map[int]Handler),
		log:      log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a handler for one event type and returns a function
// that removes the subscription. Connection-scoped subscribers (the
// WebSocket stream) must unsubscribe on disconnect.
func (b *Bus) Subscribe(eventType EventType, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[eventType][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[eventType], id)
	}
}

// SubscribeAll registers a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) (unsubscribe func()) {
	unsubs := make([]func(), 0, len(AllTypes()))
	for _, eventType := range AllTypes() {
		unsubs = append(unsubs, b.Subscribe(eventType, handler))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Emit dispatches an event to all handlers subscribed to its type
func (b *Bus) Emit(data EventData) {
	event := &Event{
		Type:      data.EventType(),
		Timestamp: time.Now(),
		Data:      data,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Type]))
	for _, handler := range b.handlers[event.Type] {
		handlers = append(handlers, handler)
	}
	b.mu.RUnlock()

	b.log.Debug().
		Str("event_type", string(event.Type)).
		Int("handlers", len(handlers)).
		Msg("Emitting event")

	for _, handler := range handlers {
		handler(event)
	}
}
