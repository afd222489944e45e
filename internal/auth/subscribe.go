package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Event names a session lifecycle transition.
type Event string

const (
	EventSignedIn  Event = "signed-in"
	EventSignedOut Event = "signed-out"
)

// Subscriber receives session lifecycle events. The session pointer is nil
// for signed-out events. Subscribers run synchronously on the goroutine
// that triggered the transition, outside the backend lock.
type Subscriber func(Event, *Session)

type subscriberTable struct {
	mu    sync.Mutex
	table map[string]Subscriber
}

func (t *subscriberTable) init() {
	t.table = map[string]Subscriber{}
}

// Subscribe registers a callback for session lifecycle events and returns
// an opaque handle for Unsubscribe.
func (s *Service) Subscribe(fn Subscriber) string {
	handle := uuid.NewString()
	s.subscribers.mu.Lock()
	s.subscribers.table[handle] = fn
	s.subscribers.mu.Unlock()
	return handle
}

// Unsubscribe removes a previously registered callback. Unknown handles are
// ignored.
func (s *Service) Unsubscribe(handle string) {
	s.subscribers.mu.Lock()
	delete(s.subscribers.table, handle)
	s.subscribers.mu.Unlock()
}

// notify fans an event out to a snapshot of the subscriber table. One
// subscriber's panic is recovered and logged so it cannot affect other
// subscribers or the caller that triggered the event.
func (s *Service) notify(event Event, sess *Session) {
	s.subscribers.mu.Lock()
	snapshot := make([]Subscriber, 0, len(s.subscribers.table))
	for _, fn := range s.subscribers.table {
		snapshot = append(snapshot, fn)
	}
	s.subscribers.mu.Unlock()

	for _, fn := range snapshot {
		s.dispatch(fn, event, sess)
	}
}

func (s *Service) dispatch(fn Subscriber, event Event, sess *Session) {
	defer func() {
		if r := recover(); r != nil {
			s.backend.Logger().Warn("auth subscriber panicked", "event", string(event), "panic", r)
		}
	}()
	fn(event, sess)
}
