package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DefaultLoginFailure is shown when a rejected login carries no message.
const DefaultLoginFailure = "Invalid email or password"

// CredentialsError is a rejected login. Message is what the operator sees.
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string { return e.Message }

func (e *CredentialsError) Is(target error) bool { return target == ErrInvalidCredentials }

// ServerError is a non-2xx answer other than 401.
type ServerError struct {
	StatusCode int
	// Message is the human readable text found in the body, if any.
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// errorBody is the union of the error shapes the backend is known to send.
type errorBody struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
}

// ErrorMessage digs a human readable message out of an error response body.
// Precedence: "message", then the JSON text of "detail", then "error".
// It returns "" when the body is not JSON or carries none of them.
func ErrorMessage(body []byte) string {
	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		return ""
	}
	if s := strings.TrimSpace(b.Message); s != "" {
		return s
	}
	if d := strings.TrimSpace(string(b.Detail)); d != "" && d != "null" {
		var s string
		if json.Unmarshal(b.Detail, &s) == nil {
			return s
		}
		return d
	}
	return strings.TrimSpace(b.Error)
}
