// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// errorBody is the JSON shape every error response uses.
type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorLogger pairs error responses with structured log lines so a 500
// in production always has a matching log entry with the real cause.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// ServerError logs the underlying error and answers 500 with a generic
// message. The real error never reaches the client.
func (e *ErrorLogger) ServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

// Unavailable answers 503 for a downstream dependency that is down.
func (e *ErrorLogger) Unavailable(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Warn(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	JSON(w, http.StatusServiceUnavailable, errorBody{Error: msg})
}

// BadRequest answers 400 with the given message.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// Unauthorized answers 401.
func (e *ErrorLogger) Unauthorized(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "unauthorized"
	}
	JSON(w, http.StatusUnauthorized, errorBody{Error: msg})
}

// Forbidden answers 403.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "forbidden"
	}
	JSON(w, http.StatusForbidden, errorBody{Error: msg})
}

// NotFound answers 404.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "not found"
	}
	JSON(w, http.StatusNotFound, errorBody{Error: msg})
}

// Conflict answers 409 for uniqueness violations.
func (e *ErrorLogger) Conflict(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusConflict, errorBody{Error: msg})
}
