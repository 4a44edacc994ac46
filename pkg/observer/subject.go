// Package observer provides a small generic publish/observe primitive.
package observer

import (
	"context"
	"sync"
)

// Observer receives published values of type T.
type Observer[T any] interface {
	Notify(context.Context, T) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[T any] func(context.Context, T) error

// Notify calls the wrapped function.
func (f ObserverFunc[T]) Notify(ctx context.Context, v T) error {
	return f(ctx, v)
}

// Subject fans published values out to every attached observer, in attach
// order. Observer errors go to the error handler and never stop the fan-out.
type Subject[T any] struct {
	mu        sync.RWMutex
	observers []Observer[T]
	onError   func(error)
}

// NewSubject returns a Subject with the given initial observers.
func NewSubject[T any](observers ...Observer[T]) *Subject[T] {
	return &Subject[T]{observers: append([]Observer[T](nil), observers...)}
}

// Attach registers additional observers.
func (s *Subject[T]) Attach(observers ...Observer[T]) {
	s.mu.Lock()
	s.observers = append(s.observers, observers...)
	s.mu.Unlock()
}

// SetErrorHandler installs a callback invoked for each observer failure.
func (s *Subject[T]) SetErrorHandler(fn func(error)) {
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// Publish delivers v to every observer attached at call time.
func (s *Subject[T]) Publish(ctx context.Context, v T) {
	s.mu.RLock()
	observers := append([]Observer[T](nil), s.observers...)
	onError := s.onError
	s.mu.RUnlock()

	for _, obs := range observers {
		if obs == nil {
			continue
		}
		if err := obs.Notify(ctx, v); err != nil && onError != nil {
			onError(err)
		}
	}
}
