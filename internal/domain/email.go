package domain

import (
	"context"
	"errors"
)

// ErrSendEmail marks a failure in the outbound email gateway (timeout or a
// non-2xx upstream response). The HTTP layer maps it to 502.
var ErrSendEmail = errors.New("failed to send email")

// Issue is a single newsletter edition: a title plus an HTML and a
// plain-text body. Issues are transient and never persisted.
type Issue struct {
	Title string
	HTML  string
	Text  string
}

// PublishService defines the business logic for broadcasting an issue to
// all confirmed subscribers, gated by operator Basic credentials.
type PublishService interface {
	Publish(ctx context.Context, authHeader string, issue Issue) error
}

// Mailer defines the contract for sending emails (infrastructure port).
// One call issues exactly one upstream request carrying all recipients;
// the mailer performs no retries.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}
