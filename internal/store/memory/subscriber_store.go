package memory

import (
	"context"
	"sync"

	"newsletter/internal/domain"
)

// SubscriberStore is the reference in-memory implementation of
// domain.SubscriberStore. The subscriber list is guarded by a
// reader/writer lock; the id counter has its own mutex so allocation is a
// short critical section that never nests with the list lock.
type SubscriberStore struct {
	mu          sync.RWMutex
	subscribers []domain.Subscriber

	idMu   sync.Mutex
	nextID int
}

// NewSubscriberStore returns an empty store. Ids start at 1.
func NewSubscriberStore() *SubscriberStore {
	return &SubscriberStore{nextID: 1}
}

// AllocateID returns the current counter value and increments it.
func (s *SubscriberStore) AllocateID(_ context.Context) (int, error) {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := s.nextID
	s.nextID++
	return id, nil
}

// Snapshot returns a copy of all subscribers.
func (s *SubscriberStore) Snapshot(_ context.Context) ([]domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Subscriber, len(s.subscribers))
	copy(out, s.subscribers)
	return out, nil
}

// FindByEmail returns the subscriber with the given email, compared
// case-sensitively against the stored value.
func (s *SubscriberStore) FindByEmail(_ context.Context, email string) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.subscribers {
		if s.subscribers[i].Email == email {
			sub := s.subscribers[i]
			return &sub, nil
		}
	}
	return nil, domain.ErrSubscriberNotFound
}

// FindByID returns the subscriber with the given id.
func (s *SubscriberStore) FindByID(_ context.Context, id int) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.subscribers {
		if s.subscribers[i].ID == id {
			sub := s.subscribers[i]
			return &sub, nil
		}
	}
	return nil, domain.ErrSubscriberNotFound
}

// Insert appends a new subscriber. Two concurrent inserts with the same
// email are serialized by the write lock; the loser gets ErrDuplicateEmail.
func (s *SubscriberStore) Insert(_ context.Context, sub *domain.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.subscribers {
		if s.subscribers[i].Email == sub.Email {
			return domain.ErrDuplicateEmail
		}
	}
	s.subscribers = append(s.subscribers, *sub)
	return nil
}

// MarkConfirmed flips the subscriber's status to confirmed. Confirming an
// already-confirmed subscriber is a no-op.
func (s *SubscriberStore) MarkConfirmed(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.subscribers {
		if s.subscribers[i].ID == id {
			s.subscribers[i].Status = domain.StatusConfirmed
			return nil
		}
	}
	return domain.ErrSubscriberNotFound
}
