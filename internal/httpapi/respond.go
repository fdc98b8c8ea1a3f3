package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// Envelope is the wire shape shared by every endpoint: {success, data} on the
// happy path, {success, error} otherwise.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a success envelope.
func WriteData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, Envelope{Success: true, Data: data})
}

// WriteError maps err to its status and writes a failure envelope. Internal
// causes are logged, never echoed to the client.
func WriteError(w http.ResponseWriter, logger *log.Logger, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Internal(err)
	}
	if apiErr.Code == CodeInternal && logger != nil {
		logger.Printf(`{"level":"error","msg":"request_failed","error":%q}`, apiErr.Error())
	}
	writeJSON(w, apiErr.Code.Status(), Envelope{Success: false, Error: apiErr.Message})
}

// WriteErrorMessage is a shortcut for handler-level validation failures.
func WriteErrorMessage(w http.ResponseWriter, code Code, message string) {
	writeJSON(w, code.Status(), Envelope{Success: false, Error: message})
}

// WriteMethodNotAllowed rejects a request whose method has no route, keeping
// the failure envelope shape.
func WriteMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, Envelope{Success: false, Error: "method not allowed"})
}

// Decode parses a JSON request body.
func Decode(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		return Validation("invalid json body")
	}
	return nil
}
