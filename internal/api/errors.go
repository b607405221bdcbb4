package api

import "fmt"

// HTTPError represents a non-2xx response from the backend. Detail is
// taken from the "detail" field of the error body when the body is
// parseable JSON; a malformed body leaves it empty and the generic
// message is used instead.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// apiError mirrors the backend's error body.
type apiError struct {
	Detail string `json:"detail"`
}
