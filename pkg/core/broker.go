package core

import (
	"context"
	"sync"
)

// DefaultEventBuffer is the per-subscriber buffer used when none is configured.
const DefaultEventBuffer = 100

// broker fans security log entries out to live subscribers.
// Sends never block the engine: a subscriber whose buffer is full misses the entry.
type broker struct {
	mu     sync.RWMutex
	subs   map[uint64]chan SecurityLog
	next   uint64
	buffer int
}

func newBroker(buffer int) *broker {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &broker{
		subs:   make(map[uint64]chan SecurityLog),
		buffer: buffer,
	}
}

func (b *broker) subscribe(ctx context.Context) <-chan SecurityLog {
	ch := make(chan SecurityLog, b.buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}

// publish returns the number of subscribers that dropped the entry.
func (b *broker) publish(entry SecurityLog) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	dropped := 0
	for _, ch := range b.subs {
		select {
		case ch <- entry:
		default:
			dropped++
		}
	}
	return dropped
}

func (b *broker) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
