package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/iho/authgate/internal/domain"
)

// Error is an HTTP-level failure returned by the backend. Non-401 errors
// pass through the pipeline to the caller unchanged; only 401 triggers the
// refresh path.
type Error struct {
	Status  int
	Message string
	Detail  string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// UserMessage returns the backend's human-readable message, safe to
// surface in UI forms. The backend's "message" field carries the friendly
// text; "error" is the short machine label.
func (e *Error) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// Unwrap lets callers match authorization failures with errors.Is.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return domain.ErrUnauthorized
	}
	return nil
}

// IsUnauthorized reports whether err is a 401 API error.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// newError drains the response body into an Error. The body is closed.
func newError(resp *http.Response) *Error {
	defer resp.Body.Close()

	e := &Error{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(body) == 0 {
		return e
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		e.Message = payload.Error
		e.Detail = payload.Message
	}

	return e
}
