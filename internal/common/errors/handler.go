// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// Response is the external contract of every endpoint: a simple
// success/failure flag plus a user-facing message.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteSuccess writes a 200 response with the given message and optional payload.
func WriteSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// WriteError maps an internal error onto the external response contract.
// Validation errors keep their message; everything else collapses to a
// generic failure so store details never leak to the caller.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong, please try again"

	if se, ok := err.(*StandardError); ok {
		switch {
		case IsValidation(se):
			status = http.StatusBadRequest
			message = se.Message
		case se.Code == ErrCodeProductNotFound || se.Code == ErrCodeRequestNotFound:
			status = http.StatusNotFound
			message = se.Message
		}
	}

	writeJSON(w, status, Response{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
