// Package session holds the signed-in user for one navigation context: the
// whole process for the in-memory router, or a single request for the HTTP
// gateway.
//
// A Store has one writer (the auth collaborator) and any number of readers.
// Every publication replaces the user wholesale; readers never observe a
// partially updated value.
package session

import (
	"context"
	"sync"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

// Store is a single-writer broadcast holder of the current session.
type Store struct {
	mu       sync.RWMutex
	current  domain.Session
	resolved bool
	// ready is closed while the session is resolved.
	ready   chan struct{}
	subs    map[uint64]chan domain.Session
	nextSub uint64
}

// NewStore returns a store whose session is still undetermined. Readers
// calling Await block until the first Publish or Clear.
func NewStore() *Store {
	return &Store{
		ready: make(chan struct{}),
		subs:  make(map[uint64]chan domain.Session),
	}
}

// NewResolvedStore returns a store already holding user (nil for anonymous).
func NewResolvedStore(user *domain.User) *Store {
	s := NewStore()
	s.Publish(user)
	return s
}

// Snapshot returns the latest published session without waiting.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Resolved reports whether the session is determined.
func (s *Store) Resolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// BeginRestore marks the session as undetermined until the next Publish or
// Clear. The previous snapshot stays readable through Snapshot.
func (s *Store) BeginRestore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		s.resolved = false
		s.ready = make(chan struct{})
	}
}

// Publish replaces the current user and resolves the session.
func (s *Store) Publish(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = domain.Session{User: user.Clone(), Version: s.current.Version + 1}
	if !s.resolved {
		s.resolved = true
		close(s.ready)
	}
	for _, ch := range s.subs {
		offer(ch, s.current)
	}
}

// Clear publishes the anonymous session.
func (s *Store) Clear() { s.Publish(nil) }

// Await blocks until the session is resolved and returns that snapshot. If
// ctx ends first the zero session and ctx.Err() are returned.
func (s *Store) Await(ctx context.Context) (domain.Session, error) {
	for {
		s.mu.RLock()
		resolved, current, ready := s.resolved, s.current, s.ready
		s.mu.RUnlock()

		if resolved {
			return current, nil
		}

		select {
		case <-ready:
			// A restore may have started again before we re-read; loop.
		case <-ctx.Done():
			return domain.Session{}, ctx.Err()
		}
	}
}

// Subscribe returns a channel carrying every resolved snapshot from now on.
// When the session is already resolved the current snapshot is delivered
// first. A slow reader only ever sees the newest value. The returned func
// unsubscribes and closes the channel; it is safe to call more than once.
func (s *Store) Subscribe() (<-chan domain.Session, func()) {
	ch := make(chan domain.Session, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	if s.resolved {
		ch <- s.current
	}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// offer replaces whatever is buffered in ch with v. Callers hold s.mu, so
// no other sender competes for the single slot.
func offer(ch chan domain.Session, v domain.Session) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
