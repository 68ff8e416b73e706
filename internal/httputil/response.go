package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is used where clients read a "message" field instead of "error"
type MessageBody struct {
	Message string `json:"message"`
}

// RespondJSON writes a JSON response with the given status code.
// It handles encoding errors safely by marshaling first, preventing
// partial responses if encoding fails after headers are sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		// Encoding failed - return 500 instead
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondError writes {"error": message}
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorBody{Error: message})
}

// RespondMessage writes {"message": message}
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, MessageBody{Message: message})
}

// RespondUnauthorized writes 401 with "Invalid token" when a bearer token was
// presented and rejected, and "Unauthorized" when none was presented.
func RespondUnauthorized(w http.ResponseWriter, r *http.Request) {
	if GetAuthError(r) != nil {
		RespondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	RespondError(w, http.StatusUnauthorized, "Unauthorized")
}
