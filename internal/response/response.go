// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"
)

// errorBody is the wire shape of every failure response.
type errorBody struct {
	Error string `json:"error"`
}

// okBody acknowledges mutations that carry no other payload.
type okBody struct {
	OK bool `json:"ok"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with `{"ok":true}`.
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, okBody{OK: true})
}

// Error writes an error response with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// ServerError writes a 500 response with a generic message. Internal detail
// is logged by the caller, never sent to the client.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "server error")
}
