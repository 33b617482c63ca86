package services

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"

	"newsletter/internal/domain"
)

const (
	titleMinLen = 5
	titleMaxLen = 50
	partMinLen  = 10
	partMaxLen  = 500
)

type publishService struct {
	store       domain.SubscriberStore
	credentials domain.CredentialStore
	mailer      domain.Mailer
	logger      *slog.Logger
}

// NewPublishService creates a PublishService over the given stores and mailer.
func NewPublishService(store domain.SubscriberStore, credentials domain.CredentialStore, mailer domain.Mailer, logger *slog.Logger) domain.PublishService {
	return &publishService{
		store:       store,
		credentials: credentials,
		mailer:      mailer,
		logger:      logger,
	}
}

type basicCredentials struct {
	username string
	password string
}

// parseBasicAuth extracts the operator credentials from an Authorization
// header of the form "Basic <base64(user:pass)>".
func parseBasicAuth(header string) (basicCredentials, error) {
	if header == "" {
		return basicCredentials{}, domain.ErrAuthHeaderMissing
	}
	scheme, payload, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Basic") {
		return basicCredentials{}, domain.ErrAuthHeaderMalformed
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return basicCredentials{}, fmt.Errorf("%w: %w", domain.ErrAuthHeaderMalformed, err)
	}
	if !utf8.Valid(decoded) {
		return basicCredentials{}, fmt.Errorf("%w: credentials are not valid UTF-8", domain.ErrAuthHeaderMalformed)
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return basicCredentials{}, fmt.Errorf("%w: missing password separator", domain.ErrAuthHeaderMalformed)
	}
	return basicCredentials{username: username, password: password}, nil
}

// verifyCredentials compares the SHA3-256 digest of the supplied password
// against the stored hex digest for the operator.
func (s *publishService) verifyCredentials(creds basicCredentials) error {
	digest, ok := s.credentials.Lookup(creds.username)
	if !ok {
		return domain.ErrUnknownOperator
	}
	sum := sha3.Sum256([]byte(creds.password))
	if hex.EncodeToString(sum[:]) != digest {
		return domain.ErrWrongPassword
	}
	return nil
}

// validateIssue checks the payload rules in order; the first failing rule
// produces the diagnostic.
func validateIssue(issue domain.Issue) error {
	if n := utf8.RuneCountInString(issue.Title); n < titleMinLen || n > titleMaxLen {
		return domain.NewValidationError(fmt.Sprintf("title must be between %d and %d characters", titleMinLen, titleMaxLen))
	}
	if n := utf8.RuneCountInString(issue.Text); n < partMinLen || n > partMaxLen {
		return domain.NewValidationError(fmt.Sprintf("content.text must be between %d and %d characters", partMinLen, partMaxLen))
	}
	if n := utf8.RuneCountInString(issue.HTML); n < partMinLen || n > partMaxLen {
		return domain.NewValidationError(fmt.Sprintf("content.html must be between %d and %d characters", partMinLen, partMaxLen))
	}
	return nil
}

func (s *publishService) Publish(ctx context.Context, authHeader string, issue domain.Issue) error {
	creds, err := parseBasicAuth(authHeader)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to authenticate publish request", "err", err)
		return err
	}

	// Credential verification runs while the payload is validated; a
	// validation failure wins so the credential outcome is never leaked on
	// an invalid payload.
	authResult := make(chan error, 1)
	go func() {
		authResult <- s.verifyCredentials(creds)
	}()

	if err := validateIssue(issue); err != nil {
		return err
	}
	if err := <-authResult; err != nil {
		s.logger.WarnContext(ctx, "failed to authenticate publish request", "operator", creds.username, "err", err)
		return err
	}

	// Snapshot first, then send: no outbound I/O happens under the store
	// lock, and subscribers confirming after this point are not part of
	// this issue.
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot subscribers: %w", err)
	}
	var recipients []string
	for _, sub := range snapshot {
		if sub.Status == domain.StatusConfirmed {
			recipients = append(recipients, sub.Email)
		}
	}
	if len(recipients) == 0 {
		s.logger.InfoContext(ctx, "no confirmed subscribers, nothing to send", "title", issue.Title)
		return nil
	}
	if err := s.mailer.Send(ctx, recipients, issue.Title, issue.HTML, issue.Text); err != nil {
		return fmt.Errorf("send newsletter: %w", err)
	}
	s.logger.InfoContext(ctx, "newsletter published", "title", issue.Title, "recipients", len(recipients))
	return nil
}
