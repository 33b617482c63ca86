package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"newsletter/internal/domain"
)

// fakePublishService implements domain.PublishService for handler tests.
type fakePublishService struct {
	publishErr error

	lastAuthHeader string
	lastIssue      domain.Issue
}

func (f *fakePublishService) Publish(_ context.Context, authHeader string, issue domain.Issue) error {
	f.lastAuthHeader = authHeader
	f.lastIssue = issue
	return f.publishErr
}

const validNewsletterBody = `{"title":"Newsletter title","content":{"text":"Newsletter body as plain text","html":"<p>Newsletter body as HTML</p>"}}`

func TestNewsletterController_Publish(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		publishErr    error
		wantStatus    int
		wantChallenge bool
	}{
		{
			name:       "success",
			body:       validNewsletterBody,
			wantStatus: http.StatusOK,
		},
		{
			name:          "missing auth header",
			body:          validNewsletterBody,
			publishErr:    domain.ErrAuthHeaderMissing,
			wantStatus:    http.StatusUnauthorized,
			wantChallenge: true,
		},
		{
			name:          "malformed auth header",
			body:          validNewsletterBody,
			publishErr:    fmt.Errorf("%w: missing password separator", domain.ErrAuthHeaderMalformed),
			wantStatus:    http.StatusBadRequest,
			wantChallenge: true,
		},
		{
			name:          "unknown operator",
			body:          validNewsletterBody,
			publishErr:    domain.ErrUnknownOperator,
			wantStatus:    http.StatusUnauthorized,
			wantChallenge: true,
		},
		{
			name:          "wrong password",
			body:          validNewsletterBody,
			publishErr:    domain.ErrWrongPassword,
			wantStatus:    http.StatusUnauthorized,
			wantChallenge: true,
		},
		{
			name:       "validation failure",
			body:       validNewsletterBody,
			publishErr: domain.NewValidationError("title must be between 5 and 50 characters"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "gateway failure",
			body:       validNewsletterBody,
			publishErr: fmt.Errorf("send newsletter: %w", domain.ErrSendEmail),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "malformed body",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unexpected error",
			body:       validNewsletterBody,
			publishErr: errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePublishService{publishErr: tt.publishErr}
			c := NewNewsletterController(testLogger(), svc)
			req := httptest.NewRequest(http.MethodPost, "http://test/newsletters", bytes.NewBufferString(tt.body))
			req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
			rr := httptest.NewRecorder()

			c.Publish(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantChallenge {
				assert.Equal(t, `Basic realm="publish"`, rr.Header().Get("WWW-Authenticate"))
				assert.Empty(t, rr.Body.String())
			}
		})
	}
}

func TestNewsletterController_Publish_PassesIssueAndHeader(t *testing.T) {
	svc := &fakePublishService{}
	c := NewNewsletterController(testLogger(), svc)
	req := httptest.NewRequest(http.MethodPost, "http://test/newsletters", bytes.NewBufferString(validNewsletterBody))
	req.Header.Set("Authorization", "Basic abc")
	rr := httptest.NewRecorder()

	c.Publish(rr, req)

	assert.Equal(t, "Basic abc", svc.lastAuthHeader)
	assert.Equal(t, "Newsletter title", svc.lastIssue.Title)
	assert.Equal(t, "<p>Newsletter body as HTML</p>", svc.lastIssue.HTML)
	assert.Equal(t, "Newsletter body as plain text", svc.lastIssue.Text)
}
