package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"newsletter/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(health *controllers.HealthController, subscriptions *controllers.SubscriptionController, newsletters *controllers.NewsletterController) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health_check", health.Check)
	mux.HandleFunc("GET /{$}", health.Greet)
	mux.HandleFunc("GET /{name}", health.Greet)

	// Subscriber lifecycle
	mux.HandleFunc("POST /subscriptions", subscriptions.Subscribe)
	mux.HandleFunc("GET /subscriptions/confirm", subscriptions.Confirm)
	mux.HandleFunc("GET /subscriptions/find", subscriptions.Find)

	// Broadcast
	mux.HandleFunc("POST /newsletters", newsletters.Publish)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
