// Package hook implements the tap-style lifecycle hooks exposed by the
// bundler and the HTML plugin.
//
// A hook is a named, ordered list of taps. Synchronous hooks simply call each
// tap in registration order. Asynchronous series hooks hand every tap a
// continuation; the next tap runs only after the previous one called it, and
// the first error short-circuits the series into the final callback.
package hook

import (
	"fmt"
	"sync"
)

// Callback is the continuation handed to asynchronous taps.
type Callback func(err error)

type syncTap[T any] struct {
	name string
	fn   func(T)
}

// SyncHook calls taps in order and ignores their results.
type SyncHook[T any] struct {
	name string
	mu   sync.RWMutex
	taps []syncTap[T]
}

// NewSyncHook creates an empty synchronous hook.
func NewSyncHook[T any](name string) *SyncHook[T] {
	return &SyncHook[T]{name: name}
}

// Name returns the hook name.
func (h *SyncHook[T]) Name() string { return h.name }

// Tap registers fn under the given plugin name.
func (h *SyncHook[T]) Tap(name string, fn func(T)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, syncTap[T]{name: name, fn: fn})
}

// Call invokes every tap with arg.
func (h *SyncHook[T]) Call(arg T) {
	h.mu.RLock()
	taps := append([]syncTap[T](nil), h.taps...)
	h.mu.RUnlock()
	for _, t := range taps {
		t.fn(arg)
	}
}

// Len returns the number of registered taps.
func (h *SyncHook[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.taps)
}

type asyncTap[T any] struct {
	name string
	fn   func(T, Callback)
}

// AsyncSeriesHook runs taps one after another, each completing through its
// continuation.
type AsyncSeriesHook[T any] struct {
	name string
	mu   sync.RWMutex
	taps []asyncTap[T]
}

// NewAsyncSeriesHook creates an empty asynchronous series hook.
func NewAsyncSeriesHook[T any](name string) *AsyncSeriesHook[T] {
	return &AsyncSeriesHook[T]{name: name}
}

// Name returns the hook name.
func (h *AsyncSeriesHook[T]) Name() string { return h.name }

// Tap registers a tap that completes when fn returns.
func (h *AsyncSeriesHook[T]) Tap(name string, fn func(T) error) {
	h.TapAsync(name, func(arg T, done Callback) {
		done(fn(arg))
	})
}

// TapAsync registers a tap that completes when it calls done. done may be
// called synchronously or later from another goroutine.
func (h *AsyncSeriesHook[T]) TapAsync(name string, fn func(T, Callback)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, asyncTap[T]{name: name, fn: fn})
}

// Len returns the number of registered taps.
func (h *AsyncSeriesHook[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.taps)
}

// CallAsync runs the taps in series and calls done exactly once with the
// first error or nil.
func (h *AsyncSeriesHook[T]) CallAsync(arg T, done Callback) {
	h.mu.RLock()
	taps := append([]asyncTap[T](nil), h.taps...)
	h.mu.RUnlock()

	var next func(i int)
	next = func(i int) {
		if i == len(taps) {
			done(nil)
			return
		}
		t := taps[i]
		var once sync.Once
		t.fn(arg, func(err error) {
			once.Do(func() {
				if err != nil {
					done(fmt.Errorf("%s: %s: %w", h.name, t.name, err))
					return
				}
				next(i + 1)
			})
		})
	}
	next(0)
}

// Call runs the taps and blocks until the series completes.
func (h *AsyncSeriesHook[T]) Call(arg T) error {
	ch := make(chan error, 1)
	h.CallAsync(arg, func(err error) { ch <- err })
	return <-ch
}
