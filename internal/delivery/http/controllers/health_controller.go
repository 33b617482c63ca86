package controllers

import (
	"fmt"
	"net/http"

	"newsletter/internal/delivery/http/helpers"
)

// healthBody is the fixed readiness payload, served as a JSON string.
const healthBody = "{\"metric1\":1000, \"metric2\":2000}"

// HealthController serves the readiness probe and the greeting routes.
type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Check godoc
// @Summary Readiness probe
// @Description Returns a fixed readiness payload.
// @Tags health
// @Produce json
// @Success 200 {string} string "readiness metrics"
// @Router /health_check [get]
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, healthBody)
}

// Greet responds with a plain-text greeting; the path segment names the
// greeted party and defaults to World.
func (c *HealthController) Greet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		name = "World"
	}
	fmt.Fprintf(w, "Hello %s!", name)
}
