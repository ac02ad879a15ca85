package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bus is an in-memory event bus. The engine publishes synchronously under
// its operation lock, so handlers observe facts in commit order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type]map[string]Handler
	logger   *zap.Logger
	closed   bool
}

// NewBus creates a new event bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[Type]map[string]Handler),
		logger:   logger.Named("event_bus"),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *Bus) Subscribe(typ Type, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New().String()

	if b.handlers[typ] == nil {
		b.handlers[typ] = make(map[string]Handler)
	}
	b.handlers[typ][id] = handler

	b.logger.Debug("Handler subscribed",
		zap.String("event_type", string(typ)),
		zap.String("subscription_id", id))

	return &subscription{id: id, bus: b, typ: typ}
}

// SubscribeFunc is a convenience method for subscribing with a function.
func (b *Bus) SubscribeFunc(typ Type, fn func(context.Context, Event) error) Subscription {
	return b.Subscribe(typ, HandlerFunc(fn))
}

// Publish delivers an event to all registered handlers, in the calling
// goroutine. A handler error does not stop delivery to the others.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("event bus is shut down")
	}
	handlers := b.handlers[event.Type()]
	// Copy so handlers can subscribe/unsubscribe from inside Handle.
	handlersCopy := make(map[string]Handler, len(handlers))
	for id, h := range handlers {
		handlersCopy[id] = h
	}
	b.mu.RUnlock()

	var errs []error
	for id, handler := range handlersCopy {
		if err := handler.Handle(ctx, event); err != nil {
			b.logger.Error("Handler error",
				zap.String("event_type", string(event.Type())),
				zap.String("handler_id", id),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("handlers failed: %v", errs)
	}
	return nil
}

func (b *Bus) unsubscribe(id string, typ Type) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handlers, ok := b.handlers[typ]; ok {
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(b.handlers, typ)
		}
	}

	b.logger.Debug("Handler unsubscribed",
		zap.String("event_type", string(typ)),
		zap.String("subscription_id", id))
}

// Shutdown stops the bus; subsequent publishes fail.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.logger.Info("Event bus shut down")
}
