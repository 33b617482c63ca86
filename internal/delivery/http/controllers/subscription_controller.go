package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"newsletter/internal/delivery/http/helpers"
	"newsletter/internal/domain"
)

// SubscribeRequest is the request body for POST /subscriptions
type SubscribeRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SubscribeResponse is the response body for POST /subscriptions
type SubscribeResponse struct {
	ID int `json:"id"`
}

// SubscriptionController handles the subscriber lifecycle endpoints.
type SubscriptionController struct {
	Logger  *slog.Logger
	Service domain.SubscriptionService
}

func NewSubscriptionController(logger *slog.Logger, svc domain.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		Logger:  logger,
		Service: svc,
	}
}

// Subscribe godoc
// @Summary Sign up a new subscriber
// @Description Register an email for the newsletter and send the double-opt-in confirmation email. Re-posting a pending email returns the same id and re-sends the confirmation.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body SubscribeRequest true "Sign-up data"
// @Success 200 {object} SubscribeResponse
// @Failure 400 "validation failure or already-confirmed email"
// @Failure 502 "confirmation email could not be sent"
// @Router /subscriptions [post]
func (c *SubscriptionController) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	id, err := c.Service.Subscribe(r.Context(), req.Username, req.Email)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			helpers.WriteMessage(w, http.StatusBadRequest, verr.Message)
			return
		}
		var confirmedErr *domain.AlreadyConfirmedError
		if errors.As(err, &confirmedErr) {
			helpers.WriteMessage(w, http.StatusBadRequest, confirmedErr.Error())
			return
		}
		if errors.Is(err, domain.ErrSendEmail) {
			c.Logger.ErrorContext(r.Context(), "confirmation email failed", "path", r.URL.Path, "err", err)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, SubscribeResponse{ID: id})
}

// Confirm godoc
// @Summary Confirm a pending subscription
// @Description Flip the subscriber matching the token to confirmed. Confirming twice succeeds with no further effect.
// @Tags subscriptions
// @Produce json
// @Param subscription_token query string true "Confirmation token"
// @Success 200 "confirmation message"
// @Failure 400 "missing or invalid token"
// @Failure 404 "token does not match any subscriber"
// @Router /subscriptions/confirm [get]
func (c *SubscriptionController) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("subscription_token")

	if err := c.Service.Confirm(r.Context(), token); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			helpers.WriteMessage(w, http.StatusBadRequest, verr.Message)
			return
		}
		if errors.Is(err, domain.ErrSubscriberNotFound) {
			helpers.WriteError(w, http.StatusNotFound, "no subscription found for the given token")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	helpers.WriteMessage(w, http.StatusOK, "Subscription confirmed successfully")
}

// Find godoc
// @Summary Look up a subscriber by id
// @Tags subscriptions
// @Produce json
// @Param subscription_id query string true "Subscriber id"
// @Success 200 {object} domain.Subscriber
// @Failure 404 "unknown subscriber id"
// @Router /subscriptions/find [get]
func (c *SubscriptionController) Find(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("subscription_id")

	sub, err := c.Service.FindByID(r.Context(), rawID)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriberNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, sub)
}
