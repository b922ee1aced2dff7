package core

import (
	"slices"
	"sync"
)

// Unsubscribe removes a previously registered listener.
// Calling it more than once is harmless.
type Unsubscribe func()

// Listeners is a set of callbacks for one event kind.
// The zero value is ready to use and safe for concurrent access.
type Listeners[T any] struct {
	mu   sync.Mutex
	next int
	ids  []int
	fns  map[int]func(T)
}

// Add registers fn and returns its Unsubscribe.
func (l *Listeners[T]) Add(fn func(T)) Unsubscribe {
	if fn == nil {
		return func() {}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	l.ids = append(l.ids, id)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.fns[id]; !ok {
			return
		}
		delete(l.fns, id)
		l.ids = slices.DeleteFunc(l.ids, func(v int) bool { return v == id })
	}
}

// Emit calls every listener in registration order. Listeners run
// outside the lock and may unsubscribe themselves.
func (l *Listeners[T]) Emit(v T) {
	l.mu.Lock()
	fns := make([]func(T), 0, len(l.ids))
	for _, id := range l.ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of registered listeners.
func (l *Listeners[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}
