package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

type Bus struct {
	mutex       sync.RWMutex
	subscribers map[PromptEventType]map[uint64]PromptEventHandler
	counter     uint64
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[PromptEventType]map[uint64]PromptEventHandler),
	}
}

func (b *Bus) Subscribe(eventType PromptEventType, handler PromptEventHandler) func() {
	if handler == nil {
		return func() {}
	}
	id := atomic.AddUint64(&b.counter, 1)
	b.mutex.Lock()
	if b.subscribers[eventType] == nil {
		b.subscribers[eventType] = make(map[uint64]PromptEventHandler)
	}
	b.subscribers[eventType][id] = handler
	b.mutex.Unlock()
	return func() {
		b.mutex.Lock()
		handlers, ok := b.subscribers[eventType]
		if ok {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(b.subscribers, eventType)
			}
		}
		b.mutex.Unlock()
	}
}

func (b *Bus) Publish(ctx context.Context, event PromptEvent) error {
	b.mutex.RLock()
	handlersMap := b.subscribers[event.Type]
	handlers := make([]PromptEventHandler, 0, len(handlersMap))
	for _, handler := range handlersMap {
		handlers = append(handlers, handler)
	}
	b.mutex.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
