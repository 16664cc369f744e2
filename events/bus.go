package events

import (
	"sync"
	"sync/atomic"
)

type Handler[E any] func(E)

// Bus is a synchronous publish/subscribe hub. Handlers run on the
// publisher's goroutine, in subscription order, outside the bus lock.
type Bus[E any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []*subscriber[E]
}

type subscriber[E any] struct {
	id      uint64
	handler Handler[E]
	once    bool
	fired   atomic.Bool
}

// Subscription is the handle returned by Subscribe. Unsubscribe is
// idempotent.
type Subscription struct {
	unsubscribe func()
	done        sync.Once
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.done.Do(s.unsubscribe)
}

func NewBus[E any]() *Bus[E] {
	return &Bus[E]{}
}

func (b *Bus[E]) Subscribe(h Handler[E]) *Subscription {
	return b.add(h, false)
}

// SubscribeOnce registers h for the next published value only.
func (b *Bus[E]) SubscribeOnce(h Handler[E]) *Subscription {
	return b.add(h, true)
}

func (b *Bus[E]) add(h Handler[E], once bool) *Subscription {
	b.mu.Lock()
	b.nextID++
	sub := &subscriber[E]{id: b.nextID, handler: h, once: once}
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return &Subscription{unsubscribe: func() { b.remove(sub.id) }}
}

func (b *Bus[E]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *Bus[E]) Publish(e E) {
	b.mu.RLock()
	subs := make([]*subscriber[E], len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		if sub.once {
			if !sub.fired.CompareAndSwap(false, true) {
				continue
			}
			b.remove(sub.id)
		}
		sub.handler(e)
	}
}

func (b *Bus[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Filter wraps h so it only runs when pred holds.
func Filter[E any](pred func(E) bool, h Handler[E]) Handler[E] {
	return func(e E) {
		if pred(e) {
			h(e)
		}
	}
}
