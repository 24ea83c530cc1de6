package gotrue

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingToken indicates an empty access or refresh token was supplied.
	ErrMissingToken = errors.New("token must not be empty")
	// ErrMissingCredentials indicates an empty email or password was supplied.
	ErrMissingCredentials = errors.New("email and password required")
)

// Error is a non-2xx response from the auth API.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth api %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("auth api %d: %s", e.Status, e.Message)
}

// Unauthorized reports whether the provider rejected the credentials or tokens
// rather than failing for an infrastructure reason.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized ||
		e.Status == http.StatusForbidden ||
		e.Status == http.StatusBadRequest ||
		e.Status == http.StatusUnprocessableEntity
}

// Message returns the provider's human-readable message for err, or err's text
// when it did not originate from the auth API.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// errorBody covers the three error shapes the auth API emits across versions.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func parseError(status int, data []byte) *Error {
	e := &Error{Status: status}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		e.Message = http.StatusText(status)
		return e
	}

	switch {
	case body.ErrorDescription != "":
		e.Message = body.ErrorDescription
	case body.Msg != "":
		e.Message = body.Msg
	case body.Message != "":
		e.Message = body.Message
	case body.Error != "":
		e.Message = body.Error
	default:
		e.Message = http.StatusText(status)
	}

	switch {
	case body.ErrorCode != "":
		e.Code = body.ErrorCode
	case body.Error != "" && body.ErrorDescription != "":
		e.Code = body.Error
	default:
		if code, ok := body.Code.(string); ok {
			e.Code = code
		}
	}

	return e
}
