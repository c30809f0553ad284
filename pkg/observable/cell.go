// Package observable provides a minimal observable cell: a value with
// get/set/subscribe semantics.
//
// Listeners are notified synchronously, in subscription order, before Set or
// Update returns. Notification happens outside the cell's lock, so a listener
// may read or write the cell. Under concurrent writers a listener receives
// the value produced by the write that triggered it; call Get for the latest.
package observable

import "sync"

// Listener receives the value a cell was set to.
type Listener[T any] func(T)

// Cell holds a value of type T and notifies subscribers on change.
// It is safe for concurrent use.
type Cell[T any] struct {
	mu        sync.RWMutex
	value     T
	nextID    uint64
	listeners []subscription[T]
}

type subscription[T any] struct {
	id uint64
	fn Listener[T]
}

// New creates a cell holding initial.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies subscribers.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	notify(listeners, v)
}

// Update atomically derives a new value from the current one.
// If fn reports false the value is left unchanged and nobody is notified.
// Update reports whether the value was replaced.
func (c *Cell[T]) Update(fn func(T) (T, bool)) bool {
	c.mu.Lock()
	next, changed := fn(c.value)
	if !changed {
		c.mu.Unlock()
		return false
	}
	c.value = next
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	notify(listeners, next)
	return true
}

// Subscribe registers fn and returns a function that removes it.
// The returned function is idempotent.
func (c *Cell[T]) Subscribe(fn Listener[T]) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription[T]{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(id) })
	}
}

// Subscribers returns the number of registered listeners.
func (c *Cell[T]) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listeners)
}

func (c *Cell[T]) unsubscribe(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.listeners {
		if s.id == id {
			c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
			return
		}
	}
}

// snapshotListeners must be called with mu held.
func (c *Cell[T]) snapshotListeners() []Listener[T] {
	if len(c.listeners) == 0 {
		return nil
	}
	out := make([]Listener[T], len(c.listeners))
	for i, s := range c.listeners {
		out[i] = s.fn
	}
	return out
}

func notify[T any](listeners []Listener[T], v T) {
	for _, fn := range listeners {
		fn(v)
	}
}
