// Package observer provides a small synchronous publish/subscribe primitive.
// The collector uses it to fan one stream of finalized measurements out to
// any number of sinks without the pipeline knowing what those sinks are.
package observer

import (
	"context"
	"sync"
)

// Observer receives every published value of type T.
type Observer[T any] interface {
	Notify(context.Context, T) error
}

// ObserverFunc adapts a plain function into an Observer.
//
//revive:disable-next-line:exported
type ObserverFunc[T any] func(context.Context, T) error

// Notify calls the wrapped function.
func (f ObserverFunc[T]) Notify(ctx context.Context, v T) error {
	if f == nil {
		return nil
	}
	return f(ctx, v)
}

// Publisher is the write side of a Subject.
type Publisher[T any] interface {
	Publish(context.Context, T)
}

// Subject fans published values out to its attached observers, in attach
// order, on the caller's goroutine. A failing observer never stops delivery
// to the rest; its error goes to the error handler, if one is set.
type Subject[T any] struct {
	mu        sync.RWMutex
	observers []Observer[T]
	onError   func(error)
}

// NewSubject builds a Subject, optionally pre-attaching observers.
func NewSubject[T any](observers ...Observer[T]) *Subject[T] {
	return &Subject[T]{observers: append([]Observer[T](nil), observers...)}
}

// Publish delivers v to every attached observer.
func (s *Subject[T]) Publish(ctx context.Context, v T) {
	if s == nil {
		return
	}

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

// Attach registers more observers.
func (s *Subject[T]) Attach(observers ...Observer[T]) {
	if s == nil || len(observers) == 0 {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, observers...)
	s.mu.Unlock()
}

// SetErrorHandler sets the callback invoked with each observer failure.
func (s *Subject[T]) SetErrorHandler(fn func(error)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}
