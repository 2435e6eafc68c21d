package karp

import (
	"fmt"
	"net/http"

	"github.com/spraakbanken/karp-client-go/models"
)

// ErrorResponse is returned when the API answers with a failure status.
// Response.Parsed holds the validation details of a 422 and is nil for
// statuses the endpoint does not document.
type ErrorResponse struct {
	Response *Response[*models.HTTPValidationError]
}

func (e *ErrorResponse) Error() string {
	if e.Response.Parsed != nil && len(e.Response.Parsed.Detail) > 0 {
		return fmt.Sprintf("karp: %d %s: %s", e.Response.StatusCode, http.StatusText(e.Response.StatusCode), e.Response.Parsed)
	}
	return fmt.Sprintf("karp: %d %s", e.Response.StatusCode, http.StatusText(e.Response.StatusCode))
}

// StatusCode returns the HTTP status of the failed response.
func (e *ErrorResponse) StatusCode() int { return e.Response.StatusCode }

// UnexpectedStatusError is returned for undocumented status codes when
// Options.RaiseOnUnexpectedStatus is set.
type UnexpectedStatusError struct {
	StatusCode int
	Content    []byte
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("karp: unexpected status code %d: %s", e.StatusCode, e.Content)
}
