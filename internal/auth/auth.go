// Package auth implements the shared-secret gate protecting privileged
// operations (listing and deletion).
package auth

import (
	"crypto/subtle"
	"errors"
)

// ErrNotConfigured is returned when no API key is configured on the
// server. The gate fails closed, but callers can distinguish this
// misconfiguration from a plain authorization failure.
var ErrNotConfigured = errors.New("auth: API key is not configured")

// Gate authorizes requests against a single out-of-band configured
// secret.
type Gate struct {
	secret string
}

// NewGate creates a Gate for the given secret. An empty secret yields a
// gate that rejects every request with ErrNotConfigured.
func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Authorize reports whether the provided value matches the configured
// secret. The comparison is constant-time.
func (g *Gate) Authorize(provided string) (bool, error) {
	if g.secret == "" {
		return false, ErrNotConfigured
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(g.secret)) == 1, nil
}
