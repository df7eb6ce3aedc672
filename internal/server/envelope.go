package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// timeoutBody is written by http.TimeoutHandler when a request overruns.
const timeoutBody = `{"success":false,"error":"request timed out"}`

// envelope wraps every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// validationError is a client mistake reported as 400 with its message.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// writeError maps err onto a status code. Validation errors keep their
// message; anything else is reported generically.
func writeError(w http.ResponseWriter, err error) {
	var ve *validationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, envelope{Error: ve.msg})
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, envelope{
			Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{Error: "internal server error"})
	}
}

// decode reads a JSON request body capped at limit bytes.
func decode(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return invalid("invalid JSON body: %v", err)
	}
	return nil
}
