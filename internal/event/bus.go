// Package event carries store change notifications to interested observers,
// so screens or background jobs can refresh after every committed mutation.
package event

import "sync"

// Kind identifies which record kind changed.
type Kind string

const (
	KindTask     Kind = "task"
	KindCategory Kind = "category"
)

// Change describes a single committed mutation.
type Change struct {
	Kind Kind
	ID   int
}

// Bus is a simple synchronous fan-out. Subscribers are invoked on the
// publishing goroutine after the mutation has committed, so they must not
// block for long.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Change)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Change))}
}

// Subscribe registers fn and returns a function that removes it again.
func (b *Bus) Subscribe(fn func(Change)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers c to every current subscriber.
func (b *Bus) Publish(c Change) {
	b.mu.Lock()
	fns := make([]func(Change), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
