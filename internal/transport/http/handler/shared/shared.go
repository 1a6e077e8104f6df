// Package shared holds response helpers used by every handler package.
package shared

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body shape of every /api response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 envelope carrying data.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, Envelope{Success: true, Data: data}, http.StatusOK)
}

// WriteFailure writes a failed envelope with message and status.
func WriteFailure(w http.ResponseWriter, message string, status int) {
	WriteJSON(w, Envelope{Success: false, Message: message}, status)
}
