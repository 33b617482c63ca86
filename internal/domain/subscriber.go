package domain

import (
	"context"
	"errors"
	"fmt"
)

// Subscriber status values. The lifecycle is one-way:
// pending_confirmation -> confirmed.
const (
	StatusPendingConfirmation = "pending_confirmation"
	StatusConfirmed           = "confirmed"
)

// Sentinel errors for subscriber operations.
var (
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrDuplicateEmail     = errors.New("email already subscribed")
)

// Subscriber represents one newsletter sign-up, keyed by email and
// identified by a monotonically assigned id. The id doubles as the
// confirmation token.
type Subscriber struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

// AlreadyConfirmedError is returned when a sign-up targets an email whose
// subscription is already confirmed.
type AlreadyConfirmedError struct {
	Email string
}

func (e *AlreadyConfirmedError) Error() string {
	return fmt.Sprintf("Subscription with email %s is already confirmed", e.Email)
}

// SubscriptionService defines the business logic for the subscriber
// lifecycle: sign-up with double-opt-in, token confirmation, and lookup.
type SubscriptionService interface {
	// Subscribe validates the sign-up, reconciles it with the store, and
	// sends the confirmation email. Repeated pending sign-ups for the same
	// email return the same id.
	Subscribe(ctx context.Context, username, email string) (int, error)
	// Confirm validates the token and flips the matching subscriber to
	// confirmed. Idempotent.
	Confirm(ctx context.Context, token string) error
	// FindByID resolves the raw id query parameter to a subscriber.
	FindByID(ctx context.Context, rawID string) (*Subscriber, error)
}

// SubscriberStore defines the interface for subscriber storage.
//
// Observable ordering: any Insert or MarkConfirmed that returned success is
// visible to every subsequent read. Implementations must never hand out the
// same id twice from AllocateID.
type SubscriberStore interface {
	// AllocateID returns the next subscriber id. Ids start at 1 and are
	// strictly increasing; an allocated id is never reused.
	AllocateID(ctx context.Context) (int, error)
	// Snapshot returns a read-only copy of all subscribers.
	Snapshot(ctx context.Context) ([]Subscriber, error)
	// FindByEmail returns ErrSubscriberNotFound when no entry matches.
	// Email comparison is case-sensitive, exactly as stored.
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	// FindByID returns ErrSubscriberNotFound when no entry matches.
	FindByID(ctx context.Context, id int) (*Subscriber, error)
	// Insert stores a new subscriber. Returns ErrDuplicateEmail if an entry
	// with the same email already exists.
	Insert(ctx context.Context, s *Subscriber) error
	// MarkConfirmed sets the subscriber's status to confirmed. Idempotent;
	// returns ErrSubscriberNotFound if no such id exists.
	MarkConfirmed(ctx context.Context, id int) error
}
