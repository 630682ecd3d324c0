package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRejected is returned for any other 4xx response.
	ErrRejected = errors.New("request rejected")
	// ErrUpstream covers 5xx responses and transport failures.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrBadResponse is returned when a response body cannot be decoded.
	ErrBadResponse = errors.New("bad response")
)

// Error is a non-2xx answer from the service.
type Error struct {
	Status    int
	Message   string
	Errors    map[string][]string
	RequestID string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api: %d %s", e.Status, e.Message)
	if len(e.Errors) > 0 {
		fields := make([]string, 0, len(e.Errors))
		for f := range e.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(&b, "; %s: %s", f, strings.Join(e.Errors[f], ", "))
		}
	}
	return b.String()
}

// Unwrap maps the status onto a sentinel so callers can use errors.Is.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusUnauthorized, e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status >= http.StatusInternalServerError:
		return ErrUpstream
	}
	return ErrRejected
}

type errorBody struct {
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Errors  map[string][]string `json:"errors"`
}

// decodeError reads the service's error envelope, falling back to the
// status text when the body is not JSON.
func decodeError(resp *http.Response, requestID string) *Error {
	e := &Error{Status: resp.StatusCode, RequestID: requestID}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		e.Message = body.Message
		e.Errors = body.Errors
		if body.Status != 0 {
			e.Status = body.Status
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	if e.Message == "" {
		e.Message = "unknown error"
	}
	return e
}
