package event

import (
	"sync"

	"github.com/Konsultn-Engineering/enorm-shards/query"
)

// Observer is told about every event after it was applied successfully.
type Observer func(QueryEvent)

// Log is the ordered list of events recorded on one sharded query.
type Log struct {
	mu     sync.Mutex
	events []QueryEvent
}

func (l *Log) Record(e QueryEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Events returns a copy of the recorded events in order.
func (l *Log) Events() []QueryEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]QueryEvent(nil), l.events...)
}

// Replay applies every event to q in recorded order. It stops at the first
// failing event and returns its error as is. The log is left intact, so the
// same events can be replayed onto any number of queries.
func (l *Log) Replay(q *query.Query, observers ...Observer) error {
	return apply(l.Events(), q, observers)
}

// Drain replays onto q and then forgets the replayed events. On error
// nothing is discarded. Events recorded while Drain runs are kept. Two
// concurrent Drain calls on one Log are not supported: both replay the same
// events and the later one discards events it never applied.
func (l *Log) Drain(q *query.Query, observers ...Observer) error {
	l.mu.Lock()
	events := l.events
	l.mu.Unlock()

	if err := apply(events, q, observers); err != nil {
		return err
	}

	l.mu.Lock()
	// events recorded while draining stay
	l.events = l.events[len(events):]
	l.mu.Unlock()
	return nil
}

func apply(events []QueryEvent, q *query.Query, observers []Observer) error {
	for _, e := range events {
		if err := e.OnEvent(q); err != nil {
			return err
		}
		for _, observe := range observers {
			observe(e)
		}
	}
	return nil
}
