package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a login token when nothing else is configured.
const DefaultTTL = 120 * time.Minute

// Claims are the identity claims carried by a login token.
type Claims struct {
	jwt.RegisteredClaims

	// UniqueName is the username the token was issued for.
	UniqueName string `json:"unique_name,omitempty"`
}

// NewClaims builds claims for subject. Issued-at and expiry both derive
// from the single instant now, which callers must take in UTC. Issuer and
// audience are only embedded when non-empty.
func NewClaims(subject, uniqueName string, ttl time.Duration, issuer, audience string, now time.Time) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UniqueName: uniqueName,
	}
	if audience != "" {
		c.Audience = jwt.ClaimStrings{audience}
	}
	return c
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks the expected audience is present.
func (c *Claims) ValidateAudience(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if slices.Contains(c.Audience, expected) {
		return nil
	}

	return ErrAudience
}

// ValidateExpiry checks exp and nbf against now. A token is expired from
// the instant exp is reached, so a zero TTL never verifies.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrMissingExpiry
	}

	if !now.Before(c.ExpiresAt.Time) {
		return ErrTokenExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
