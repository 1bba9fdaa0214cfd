package dev

import "sync"

// Event is a notification pushed to live-reload listeners.
type Event int

const (
	// EventLoading is broadcast when a rebuild begins.
	EventLoading Event = iota

	// EventReload is broadcast when a rebuild completes.
	EventReload

	// EventShutdown is broadcast when the orchestrator is stopping.
	EventShutdown
)

// Broadcaster fans events out to any number of subscribers. Publishing
// never blocks: a subscriber that cannot keep up misses the event,
// which is acceptable for a dev-only notification channel.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener and returns its channel plus an
// unsubscribe function. The channel is buffered so a momentarily slow
// listener does not immediately drop events.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	b.mu.Lock()
	if b.closed {
		close(ch)
		b.mu.Unlock()
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	once := sync.Once{}
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
	return ch, unsubscribe
}

// Publish delivers ev to every subscriber without blocking.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close publishes a final shutdown event and rejects new subscribers.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		select {
		case ch <- EventShutdown:
		default:
		}
		close(ch)
		delete(b.subs, ch)
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
