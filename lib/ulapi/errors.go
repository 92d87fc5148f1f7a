// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package ulapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// RequestError reports a response whose status is outside [200, 400).
type RequestError struct {
	Method string

	// URL is the request URL without its query string.
	URL string

	StatusCode int

	// Reason is the response's reason phrase.
	Reason string

	// Body is the start of the response body (see
	// netutil.ErrorSnippetSize).
	Body string
}

func (err *RequestError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "ulapi: %s %s: HTTP %d %s", err.Method, err.URL, err.StatusCode, err.Reason)
	if body := strings.TrimSpace(err.Body); body != "" {
		fmt.Fprintf(&builder, ": %s", body)
	}
	return builder.String()
}

// AuthError reports a failure to obtain an access token.
type AuthError struct {
	// Err is the underlying cause: a *RequestError, a transport error,
	// or a malformed token response.
	Err error
}

func (err *AuthError) Error() string {
	return fmt.Sprintf("ulapi: obtaining access token: %v", err.Err)
}

func (err *AuthError) Unwrap() error { return err.Err }

// StatusCode returns the HTTP status of the *RequestError in err's
// chain, or 0 if there is none.
func StatusCode(err error) int {
	var requestError *RequestError
	if errors.As(err, &requestError) {
		return requestError.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or 403 response.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
