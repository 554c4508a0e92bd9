// Package credential models the short-lived bearer credential issued by the
// workflow service and the expiry math applied to it.
package credential

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Profile is the user profile returned alongside a credential. It is opaque
// to the session layer beyond being stored and surfaced.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// tokenClaims is the decoded middle segment of the service's bearer tokens
type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Credential is an immutable snapshot of a bearer token and its decoded
// claims. A renewal produces a new Credential, never mutates an existing one.
type Credential struct {
	raw       string
	subject   string
	expiresAt time.Time
	decodable bool
}

// Decode builds a Credential from a raw token. The middle segment must be
// base64url JSON carrying at least an exp claim; anything undecodable yields
// a credential that reports as already expired rather than an error.
func Decode(raw string) *Credential {
	c := &Credential{raw: raw}
	if raw == "" {
		return c
	}

	claims := &tokenClaims{}
	// Expiry inspection only. Signature verification is the server's job;
	// the client holds no key material.
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return c
	}
	if claims.ExpiresAt == nil {
		return c
	}

	c.subject = claims.Subject
	c.expiresAt = claims.ExpiresAt.Time
	c.decodable = true
	return c
}

// Raw returns the token exactly as issued
func (c *Credential) Raw() string {
	return c.raw
}

// Subject returns the decoded subject identifier, empty when undecodable
func (c *Credential) Subject() string {
	return c.subject
}

// ExpiresAt returns the decoded expiry, the zero time when undecodable
func (c *Credential) ExpiresAt() time.Time {
	return c.expiresAt
}

// Decodable reports whether the token's claims could be parsed
func (c *Credential) Decodable() bool {
	return c != nil && c.decodable
}
