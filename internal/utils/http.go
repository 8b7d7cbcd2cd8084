package utils

import (
	"encoding/json"
	"net/http"

	"github.com/vaughan-dsouza/medium-blog/internal/errs"
)

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// JSONError writes {"error": "..."} with a given status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	WriteError(w, &errs.HTTPError{Status: status, Message: msg})
}

// WriteError writes e with its own status.
func WriteError(w http.ResponseWriter, e *errs.HTTPError) {
	JSON(w, e.Status, e)
}
