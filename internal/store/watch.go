package store

import "sync"

// watchers fans a collection snapshot out to registered callbacks. Every
// subscription returns a disposer; owners must call it on every exit path so
// no live-update handle leaks.
type watchers[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func([]T)
}

func (w *watchers[T]) subscribe(fn func([]T)) func() {
	w.mu.Lock()
	if w.subs == nil {
		w.subs = make(map[int]func([]T))
	}
	id := w.next
	w.next++
	w.subs[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

func (w *watchers[T]) broadcast(snapshot []T) {
	w.mu.Lock()
	fns := make([]func([]T), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
