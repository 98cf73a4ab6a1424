package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
)

// DefaultTimeout bounds a single registry request, including reading the
// response body.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient creates an HTTP client for registry requests.
// A timeout of 0 disables the per-request deadline.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// WithIdentifier records the crate a failed registry request was about.
// Errors that are not a [macroerrors.RegistryError] are returned unchanged.
func WithIdentifier(err error, identifier string) error {
	var re *macroerrors.RegistryError
	if errors.As(err, &re) && re.Identifier == "" {
		re.Identifier = identifier
	}
	return err
}

// PathEscape escapes a string for use as a single URL path segment.
// This is a convenience wrapper around [url.PathEscape].
func PathEscape(s string) string { return url.PathEscape(s) }
