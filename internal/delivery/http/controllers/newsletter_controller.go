package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"newsletter/internal/delivery/http/helpers"
	"newsletter/internal/domain"
)

// publishChallenge is sent with every authentication failure on the
// publish endpoint.
const publishChallenge = `Basic realm="publish"`

// PublishRequest is the request body for POST /newsletters
type PublishRequest struct {
	Title   string         `json:"title"`
	Content PublishContent `json:"content"`
}

// PublishContent carries the two body parts of an issue.
type PublishContent struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// NewsletterController handles the publish endpoint.
type NewsletterController struct {
	Logger  *slog.Logger
	Service domain.PublishService
}

func NewNewsletterController(logger *slog.Logger, svc domain.PublishService) *NewsletterController {
	return &NewsletterController{
		Logger:  logger,
		Service: svc,
	}
}

// Publish godoc
// @Summary Publish a newsletter issue
// @Description Send the issue to every confirmed subscriber. Requires Basic operator credentials.
// @Tags newsletters
// @Accept json
// @Param body body PublishRequest true "Issue title and content"
// @Security BasicAuth
// @Success 200 "issue dispatched (or no confirmed subscribers)"
// @Failure 400 "validation failure or malformed Authorization header"
// @Failure 401 "missing or rejected credentials"
// @Failure 502 "upstream email gateway failure"
// @Router /newsletters [post]
func (c *NewsletterController) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	issue := domain.Issue{
		Title: req.Title,
		HTML:  req.Content.HTML,
		Text:  req.Content.Text,
	}
	err := c.Service.Publish(r.Context(), r.Header.Get("Authorization"), issue)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthHeaderMissing),
			errors.Is(err, domain.ErrUnknownOperator),
			errors.Is(err, domain.ErrWrongPassword):
			writeAuthFailure(w, http.StatusUnauthorized)
		case errors.Is(err, domain.ErrAuthHeaderMalformed):
			writeAuthFailure(w, http.StatusBadRequest)
		case errors.Is(err, domain.ErrSendEmail):
			c.Logger.ErrorContext(r.Context(), "newsletter dispatch failed", "path", r.URL.Path, "err", err)
			w.WriteHeader(http.StatusBadGateway)
		default:
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				helpers.WriteMessage(w, http.StatusBadRequest, verr.Message)
				return
			}
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// writeAuthFailure writes an empty response carrying the Basic challenge.
func writeAuthFailure(w http.ResponseWriter, statusCode int) {
	w.Header().Set("WWW-Authenticate", publishChallenge)
	w.WriteHeader(statusCode)
}
