// Package response writes the API's JSON bodies. The surface is fixed-shape:
// bare payloads for data responses and {"message": ...} for everything else,
// so there is no envelope type here.
package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Message writes {"message": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Message(w, http.StatusUnauthorized, "Unauthorized")
}

// Unavailable sends a 503.
func Unavailable(w http.ResponseWriter, msg string) {
	Message(w, http.StatusServiceUnavailable, msg)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Message(w, http.StatusNotFound, "Route not found")
}
