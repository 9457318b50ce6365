// Handler for miscellaneous endpoints such as health check

package handler

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Health    string    `json:"health"`
	Store     bool      `json:"store"`
	Timestamp time.Time `json:"timestamp"`
}

func (app *AppContext) HealthCheck(w http.ResponseWriter, r *http.Request) {

	response := HealthResponse{
		Health:    "ok",
		Store:     app.Store != nil,
		Timestamp: time.Now(),
	}

	writeJSON(w, http.StatusOK, response)
}
