package service

import (
	"errors"
	"time"

	"github.com/aussiebroadwan/edura/pkg/jwtx"
)

// TokenConfig is read once at startup and never changes afterwards.
type TokenConfig struct {
	Key      []byte
	Issuer   string // empty: no iss claim is issued or checked
	Audience string // empty: no aud claim is issued or checked
	TTL      time.Duration
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	signer   jwtx.Signer
	verifier jwtx.Verifier
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenService fails when no signing key is configured. A nil now uses
// the wall clock.
func NewTokenService(cfg TokenConfig, now func() time.Time) (*TokenService, error) {
	if len(cfg.Key) == 0 {
		return nil, errors.New("token service: signing key is required")
	}
	if now == nil {
		now = time.Now
	}
	if cfg.TTL <= 0 {
		cfg.TTL = jwtx.DefaultTTL
	}

	signer, err := jwtx.NewSignerHS256(cfg.Key)
	if err != nil {
		return nil, err
	}

	return &TokenService{
		signer: signer,
		verifier: jwtx.NewVerifierHS256(cfg.Key, jwtx.VerifyOptions{
			Issuer:   cfg.Issuer,
			Audience: cfg.Audience,
			Now:      func() time.Time { return now().UTC() },
		}),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      now,
	}, nil
}

// DefaultTTL is the lifetime Login uses.
func (s *TokenService) DefaultTTL() time.Duration { return s.ttl }

// Issue signs a token for the user. iat and exp come from a single clock
// read, so a ttl of zero or less yields a token that is already expired.
func (s *TokenService) Issue(userID, username string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	return s.signer.Sign(jwtx.NewClaims(userID, username, ttl, s.issuer, s.audience, now))
}

// Verify returns the claims of a valid token. Failures match
// jwtx.ErrTokenExpired or jwtx.ErrTokenInvalid.
func (s *TokenService) Verify(token string) (jwtx.Claims, error) {
	return s.verifier.Verify(token)
}
