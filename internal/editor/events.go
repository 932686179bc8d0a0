package editor

import (
	"sync"

	"github.com/gravitas-games/baseplanner/pkg/models"
)

// EventType identifies a notification sent to the presentation layer.
type EventType int

const (
	// EventPlace is emitted when a drag commits, for new and existing tokens.
	EventPlace EventType = iota
	// EventMove is emitted for every drag preview position.
	EventMove
	// EventRemove is emitted when a token is deleted.
	EventRemove
	// EventSelect is emitted when selection changes. An empty TokenID means
	// nothing is selected any more.
	EventSelect
	// EventCancelDrag is emitted when a drag is reverted.
	EventCancelDrag
	// EventExpand is emitted when a wall chain grew.
	EventExpand
	// EventReset is emitted when the board is cleared.
	EventReset
	// EventLoad is emitted after a layout import.
	EventLoad
)

// String returns the notification name.
func (t EventType) String() string {
	switch t {
	case EventPlace:
		return "place"
	case EventMove:
		return "move"
	case EventRemove:
		return "remove"
	case EventSelect:
		return "select"
	case EventCancelDrag:
		return "cancelDrag"
	case EventExpand:
		return "expand"
	case EventReset:
		return "reset"
	case EventLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Event is a single notification.
type Event struct {
	Type      EventType
	TokenID   string
	Token     *models.PlacedToken // copy; nil when not applicable
	Direction models.Direction    // EventExpand only
	Placed    []string            // ids created by EventExpand
}

// Bus delivers editor notifications.
type Bus interface {
	// Subscribe registers a handler and returns a handle for Unsubscribe.
	Subscribe(handler func(Event)) int

	// Unsubscribe removes a handler.
	Unsubscribe(handle int)

	// Publish delivers an event to every handler.
	Publish(event Event)
}

// SyncBus calls handlers inline, in subscription order, so every handler has
// run before the editor call that produced the event returns. Handlers must
// not call back into the editor.
type SyncBus struct {
	mu       sync.RWMutex
	handlers map[int]func(Event)
	order    []int
	next     int
}

// NewSyncBus creates an empty synchronous bus.
func NewSyncBus() *SyncBus {
	return &SyncBus{handlers: make(map[int]func(Event))}
}

// Subscribe registers a handler.
func (bus *SyncBus) Subscribe(handler func(Event)) int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.next++
	bus.handlers[bus.next] = handler
	bus.order = append(bus.order, bus.next)
	return bus.next
}

// Unsubscribe removes a handler.
func (bus *SyncBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, ok := bus.handlers[handle]; !ok {
		return
	}
	delete(bus.handlers, handle)
	for i, h := range bus.order {
		if h == handle {
			bus.order = append(bus.order[:i], bus.order[i+1:]...)
			break
		}
	}
}

// Publish calls every handler with event.
func (bus *SyncBus) Publish(event Event) {
	bus.mu.RLock()
	handlers := make([]func(Event), 0, len(bus.order))
	for _, h := range bus.order {
		handlers = append(handlers, bus.handlers[h])
	}
	bus.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// NullBus drops every event.
type NullBus struct{}

// Subscribe does nothing.
func (NullBus) Subscribe(handler func(Event)) int { return 0 }

// Unsubscribe does nothing.
func (NullBus) Unsubscribe(handle int) {}

// Publish does nothing.
func (NullBus) Publish(event Event) {}
