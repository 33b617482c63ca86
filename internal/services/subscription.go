package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"unicode/utf8"

	"newsletter/internal/adapters/email"
	"newsletter/internal/domain"
)

const (
	usernameMinLen = 2
	usernameMaxLen = 100
	tokenMaxLen    = 8

	confirmationTemplate = "confirmation"
)

var (
	usernameRegexp = regexp.MustCompile(`^[\sa-zA-Z0-9_]+$`)
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type subscriptionService struct {
	store    domain.SubscriberStore
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	baseURL  string
	logger   *slog.Logger
}

// NewSubscriptionService creates a SubscriptionService. baseURL is the
// public base URL used to build confirmation links.
func NewSubscriptionService(store domain.SubscriberStore, mailer domain.Mailer, renderer domain.EmailTemplateRenderer, baseURL string, logger *slog.Logger) domain.SubscriptionService {
	return &subscriptionService{
		store:    store,
		mailer:   mailer,
		renderer: renderer,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// validateSignUp checks the sign-up rules in order; the first failing rule
// produces the diagnostic.
func validateSignUp(username, email string) error {
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		return domain.NewValidationError(fmt.Sprintf("username must be between %d and %d characters", usernameMinLen, usernameMaxLen))
	}
	if !usernameRegexp.MatchString(username) {
		return domain.NewValidationError("username may only contain letters, digits, underscores and whitespace")
	}
	if !emailRegexp.MatchString(email) {
		return domain.NewValidationError("email is not a valid email address")
	}
	return nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, username, email string) (int, error) {
	if err := validateSignUp(username, email); err != nil {
		return 0, err
	}

	id, err := s.reconcile(ctx, username, email)
	if err != nil {
		return 0, err
	}

	// The store is not touched past this point: a failed send leaves the
	// subscriber pending and a later re-subscribe retries with the same id.
	if err := s.sendConfirmationEmail(ctx, email, id); err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "confirmation email sent", "subscriber_id", id)
	return id, nil
}

// reconcile resolves the sign-up against the store: reuse a pending entry's
// id, reject a confirmed one, or insert a new subscriber.
func (s *subscriptionService) reconcile(ctx context.Context, username, email string) (int, error) {
	existing, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Status == domain.StatusConfirmed {
			return 0, &domain.AlreadyConfirmedError{Email: email}
		}
		return existing.ID, nil
	case errors.Is(err, domain.ErrSubscriberNotFound):
		// fall through to insert
	default:
		return 0, fmt.Errorf("find subscriber: %w", err)
	}

	id, err := s.store.AllocateID(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}
	insertErr := s.store.Insert(ctx, &domain.Subscriber{
		ID:       id,
		Username: username,
		Email:    email,
		Status:   domain.StatusPendingConfirmation,
	})
	if errors.Is(insertErr, domain.ErrDuplicateEmail) {
		// Lost the race against a concurrent sign-up for the same email;
		// the winner's entry decides the outcome. The allocated id is
		// discarded, never reused.
		existing, err := s.store.FindByEmail(ctx, email)
		if err != nil {
			return 0, fmt.Errorf("find subscriber after duplicate insert: %w", err)
		}
		if existing.Status == domain.StatusConfirmed {
			return 0, &domain.AlreadyConfirmedError{Email: email}
		}
		return existing.ID, nil
	}
	if insertErr != nil {
		return 0, fmt.Errorf("insert subscriber: %w", insertErr)
	}
	return id, nil
}

func (s *subscriptionService) sendConfirmationEmail(ctx context.Context, recipient string, id int) error {
	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%d", s.baseURL, id)
	subject, html, text, err := s.renderer.Render(confirmationTemplate, email.ConfirmationEmailData{ConfirmationLink: link})
	if err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}
	if err := s.mailer.Send(ctx, []string{recipient}, subject, html, text); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

func (s *subscriptionService) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return domain.NewValidationError("subscription_token is missing")
	}
	if utf8.RuneCountInString(token) > tokenMaxLen {
		return domain.NewValidationError(fmt.Sprintf("subscription_token must be at most %d characters", tokenMaxLen))
	}
	id, err := strconv.Atoi(token)
	if err != nil {
		return domain.NewValidationError("subscription_token is not a valid token")
	}
	if err := s.store.MarkConfirmed(ctx, id); err != nil {
		if errors.Is(err, domain.ErrSubscriberNotFound) {
			return err
		}
		return fmt.Errorf("mark confirmed: %w", err)
	}
	return nil
}

func (s *subscriptionService) FindByID(ctx context.Context, rawID string) (*domain.Subscriber, error) {
	// A non-numeric id cannot match any subscriber.
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return nil, domain.ErrSubscriberNotFound
	}
	return s.store.FindByID(ctx, id)
}
