package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"newsletter/internal/domain"
)

// sendTimeout bounds the total wall-clock time of one outbound request.
const sendTimeout = 10 * time.Second

// MailjetConfig holds configuration for the mailjet-style HTTP provider.
type MailjetConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	Mailjet     MailjetConfig
	SES         SESConfig
}

// NewMailer creates a mailer from config. Provider "mailjet" posts to the
// upstream transactional-email HTTP API; "ses" uses AWS SES; "noop" or
// unknown uses a no-op mailer.
func NewMailer(cfg MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch cfg.Provider {
	case "mailjet":
		if cfg.Mailjet.BaseURL == "" {
			return nil, fmt.Errorf("mailjet provider requires a base URL")
		}
		return &mailjetMailer{
			// One client for the whole process so the connection pool is
			// shared across all workflows.
			client:      &http.Client{Timeout: sendTimeout},
			baseURL:     strings.TrimSuffix(cfg.Mailjet.BaseURL, "/"),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
			apiKey:      cfg.Mailjet.APIKey,
			apiSecret:   cfg.Mailjet.APISecret,
			logger:      logger,
		}, nil
	case "ses":
		awsCfg := aws.Config{
			Region: cfg.SES.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					cfg.SES.AccessKeyID,
					cfg.SES.SecretAccessKey,
					"",
				),
			),
		}
		return &sesMailer{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
			logger:      logger,
		}, nil
	case "noop":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", cfg.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

// mailjetRequest is the upstream request body. The upstream API expects
// PascalCase keys and hyphenated part names.
type mailjetRequest struct {
	FromEmail  string             `json:"FromEmail"`
	FromName   string             `json:"FromName"`
	Subject    string             `json:"Subject"`
	TextPart   string             `json:"Text-part"`
	HTMLPart   string             `json:"Html-part"`
	Recipients []mailjetRecipient `json:"Recipients"`
}

type mailjetRecipient struct {
	Email string `json:"Email"`
}

type mailjetMailer struct {
	client      *http.Client
	baseURL     string
	fromAddress string
	fromName    string
	apiKey      string
	apiSecret   string
	logger      *slog.Logger
}

// Send issues exactly one POST to {base_url}/v3/send carrying all
// recipients. Timeouts and non-2xx responses surface as domain.ErrSendEmail;
// no retries are attempted.
func (m *mailjetMailer) Send(ctx context.Context, recipients []string, subject, html, text string) error {
	payload := mailjetRequest{
		FromEmail:  m.fromAddress,
		FromName:   m.fromName,
		Subject:    subject,
		TextPart:   text,
		HTMLPart:   html,
		Recipients: make([]mailjetRecipient, 0, len(recipients)),
	}
	for _, r := range recipients {
		payload.Recipients = append(payload.Recipients, mailjetRecipient{Email: r})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode request: %w", domain.ErrSendEmail, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v3/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", domain.ErrSendEmail, err)
	}
	req.SetBasicAuth(m.apiKey, m.apiSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSendEmail, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: upstream returned status %d", domain.ErrSendEmail, resp.StatusCode)
	}
	m.logger.Debug("email sent", "recipients", len(recipients), "subject", subject)
	return nil
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func (m *sesMailer) Send(ctx context.Context, recipients []string, subject, html, text string) error {
	source := m.fromAddress
	if m.fromName != "" {
		source = fmt.Sprintf("%s <%s>", m.fromName, m.fromAddress)
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: recipients,
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(html),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(text),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("%w: ses: %w", domain.ErrSendEmail, err)
	}
	m.logger.Debug("email sent via ses", "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (m *noopMailer) Send(_ context.Context, recipients []string, subject, _, _ string) error {
	m.logger.Info("email would be sent (noop)", "recipients", len(recipients), "subject", subject)
	return nil
}
