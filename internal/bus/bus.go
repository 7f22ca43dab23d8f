// Package bus is an in-process event bus with topics keyed by event type.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var _ctx = context.Background()

// SetContext sets the context handlers receive from Publish.
func SetContext(ctx context.Context) {
	_ctx = ctx
}

// Subscriptions happen during startup, before the first Publish.
var subs = make(map[string][]func(ctx context.Context, event any))

func topic[T any]() string {
	return fmt.Sprintf("%T", *new(T))
}

// Subscribe registers fn for all published events of type T. The name tags
// error logs when fn fails.
func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) {
	key := topic[T]()
	subs[key] = append(subs[key], func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	})
}

// Publish delivers event to every subscriber of its type, in order.
func Publish[T any](event T) {
	for _, fn := range subs[topic[T]()] {
		fn(_ctx, event)
	}
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		subs: make(map[*chan T]struct{}),
	}
}

// Hub fans one event type out to dynamic subscribers.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[*chan T]struct{}
}

// Broadcast sends event to every subscriber, giving up when ctx ends.
func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case <-ctx.Done():
			return nil
		case *sub <- event:
		}
	}

	return nil
}

// Register attaches the hub to the global bus so published events of T reach
// its subscribers.
func (h *Hub[T]) Register() *Hub[T] {
	Subscribe("bus.Hub", h.Broadcast)
	return h
}

// Subscribe returns an unbuffered channel of future broadcasts and a
// function that releases it.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	c := make(chan T)
	key := &c

	h.mu.Lock()
	h.subs[key] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, key)
		h.mu.Unlock()
	}
}
