package handler

import (
	"net/http"
	"time"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HandleHealth reports that the process is up. It touches no storage.
//
// HTTP: GET /health
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
