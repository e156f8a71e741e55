package af

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches any *Error carrying HTTP 404.
var ErrNotFound = errors.New("resource not found")

// Error is returned when the backend answers with an unexpected status.
type Error struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Detail returns the server-provided detail text of err, or fallback when
// the backend gave none (or err is a transport failure).
func Detail(err error, fallback string) string {
	var afErr *Error
	if errors.As(err, &afErr) && afErr.Detail != "" {
		return afErr.Detail
	}
	return fallback
}

// StatusCode returns the HTTP status carried by err, 0 for transport errors.
func StatusCode(err error) int {
	var afErr *Error
	if errors.As(err, &afErr) {
		return afErr.StatusCode
	}
	return 0
}

// IsHTTPError reports whether err came from a backend response rather than
// from the transport.
func IsHTTPError(err error) bool {
	var afErr *Error
	return errors.As(err, &afErr)
}

// parseDetail extracts the "detail" field of a JSON error body. Non-string
// details (validation error lists) are returned as compact JSON.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	if string(payload.Detail) == "null" {
		return ""
	}
	return string(payload.Detail)
}
