// Package auth provides the pluggable authorization check that runs first in
// every catalog pipeline.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"product-catalog/internal/apierr"
)

// DefaultAPIKeyHeader is the header the shared-secret key is read from.
const DefaultAPIKeyHeader = "x-api-key"

// Authorizer admits or rejects a request before its body is read. Rejections
// are *apierr.Error values classified Unauthorized or Forbidden.
type Authorizer interface {
	Authorize(r *http.Request) error
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(r *http.Request) error

func (f AuthorizerFunc) Authorize(r *http.Request) error { return f(r) }

// APIKey admits requests carrying a single shared secret.
type APIKey struct {
	Header string
	Key    string
}

// NewAPIKey returns an APIKey authorizer. An empty header means DefaultAPIKeyHeader.
func NewAPIKey(header, key string) APIKey {
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	return APIKey{Header: header, Key: key}
}

// Authorize checks the configured header against the key.
func (a APIKey) Authorize(r *http.Request) error {
	got := r.Header.Get(a.Header)
	if got == "" {
		return apierr.Unauthorized("API key is required. Please include " + strings.ToLower(a.Header) + " in headers.")
	}
	if subtle.ConstantTimeCompare([]byte(got), []byte(a.Key)) != 1 {
		return apierr.Unauthorized("Invalid API key.")
	}
	return nil
}
