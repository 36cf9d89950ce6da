// Package observer provides the generic change-notification primitive shared
// by the inventory and order subsystems: a subscription registry plus a
// synchronous "publish current snapshot" operation.
package observer

import (
	"sync"

	"go.uber.org/zap"
)

// Subscription is a stable handle for one registration. Removal goes through
// the token rather than callback identity, so the same function can be
// registered twice and each registration removed independently.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe removes the registration. Safe to call more than once and safe
// to call while a publish is in progress.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Observable delivers snapshots to listeners synchronously, in registration
// order. Duplicate registration of the same callback yields duplicate
// deliveries; that is intended behavior, not a defect.
type Observable[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]
	logger    *zap.Logger
}

func New[T any](logger *zap.Logger) *Observable[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observable[T]{logger: logger}
}

// Subscribe registers fn and returns its removal token.
func (o *Observable[T]) Subscribe(fn func(T)) *Subscription {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.listeners = append(o.listeners, listener[T]{id: id, fn: fn})

	return &Subscription{cancel: func() { o.remove(id) }}
}

func (o *Observable[T]) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, l := range o.listeners {
		if l.id == id {
			o.listeners = append(o.listeners[:i], o.listeners[i+1:]...)
			return
		}
	}
}

// Publish invokes every currently registered listener with the snapshot. The
// listener list is copied before iterating, so unsubscribing mid-publish is
// safe. A panicking listener is isolated and the remaining listeners still
// run.
func (o *Observable[T]) Publish(snapshot T) {
	o.mu.Lock()
	current := make([]listener[T], len(o.listeners))
	copy(current, o.listeners)
	o.mu.Unlock()

	for _, l := range current {
		o.dispatch(l, snapshot)
	}
}

func (o *Observable[T]) dispatch(l listener[T], snapshot T) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("listener panicked", zap.Any("panic", r))
		}
	}()
	l.fn(snapshot)
}

// Len reports the number of active registrations.
func (o *Observable[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.listeners)
}
