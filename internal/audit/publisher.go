package audit

import (
	"context"
	"sync"
	"time"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mocks.go -package=mocks

// Publisher accepts audit events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// MemoryPublisher keeps every event in process, in emission order. It is
// unbounded and meant for tests.
type MemoryPublisher struct {
	mu     sync.RWMutex
	events []Event
	now    func() time.Time
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{now: time.Now}
}

func (p *MemoryPublisher) Emit(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	p.events = append(p.events, event)
	return nil
}

// List returns a copy of every event emitted so far.
func (p *MemoryPublisher) List() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Event(nil), p.events...)
}

// ListBySubject returns the events recorded against one subject.
func (p *MemoryPublisher) ListBySubject(subject string) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []Event
	for _, e := range p.events {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out
}
