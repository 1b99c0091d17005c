package errors

import "net/http"

// APIError is the error type services hand to the HTTP layer. Status is the
// response code; Code is a stable machine-readable identifier.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// Body is the JSON envelope written for the error. A nil receiver renders a
// generic internal error.
func (e *APIError) Body() map[string]*APIError {
	if e == nil {
		e = Internal("")
	}
	return map[string]*APIError{"error": e}
}

// StatusCode is Status with nil treated as 500.
func (e *APIError) StatusCode() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	return e.Status
}

func New(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

func Internal(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, "internal_error", message)
}

func BadRequest(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}

func Unauthorized(message string) *APIError {
	return New(http.StatusUnauthorized, "unauthorized", message)
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code, message string) *APIError {
	return New(http.StatusConflict, code, message)
}
