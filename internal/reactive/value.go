// Package reactive provides observable values for the workbench's
// change-propagation model. A Value holds a current snapshot and pings
// subscribers when it is replaced; consumers re-read the snapshot
// rather than receiving deltas.
package reactive

import "sync"

// Value is an observable container. Readers take non-blocking
// snapshots with Get; writers replace the whole value with Set, which
// broadcasts a ping to all subscribers. Subscribers receive an empty
// struct and should re-read the snapshot.
type Value[T any] struct {
	mu        sync.RWMutex
	current   T
	listeners map[chan struct{}]struct{}
}

// NewValue creates a Value holding the given initial snapshot.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current:   initial,
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Get returns the current snapshot without blocking.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set replaces the snapshot and pings all subscribers.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	v.current = next
	v.mu.Unlock()
	v.broadcast()
}

// Update applies fn to the current snapshot under the lock and stores
// the result, then pings subscribers.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	v.current = fn(v.current)
	v.mu.Unlock()
	v.broadcast()
}

// Subscribe returns a channel that receives a ping whenever the value
// is replaced. The caller must call Unsubscribe when done to prevent
// goroutine leaks.
func (v *Value[T]) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	v.mu.Lock()
	v.listeners[ch] = struct{}{}
	v.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (v *Value[T]) Unsubscribe(ch chan struct{}) {
	v.mu.Lock()
	delete(v.listeners, ch)
	v.mu.Unlock()
	close(ch)
}

// broadcast sends a ping to all listeners.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (v *Value[T]) broadcast() {
	v.mu.RLock()
	defer v.mu.RUnlock()

	for ch := range v.listeners {
		select {
		case ch <- struct{}{}:
		default:
			// Channel full, skip (listener will catch up on next ping)
		}
	}
}
