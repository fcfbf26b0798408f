package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures the expectations checked after the signature.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience the token must contain (claims.aud). Empty means "don't care".
	Audience string

	// Now returns the current instant. Defaults to time.Now in UTC.
	Now func() time.Time
}

// Every verification failure is either ErrTokenExpired or wraps
// ErrTokenInvalid together with one of the finer reasons below.
var (
	ErrTokenInvalid = errors.New("jwtx: invalid token")
	ErrTokenExpired = errors.New("jwtx: token expired")

	ErrMalformed     = errors.New("jwtx: malformed token")
	ErrInvalidSig    = errors.New("jwtx: invalid signature")
	ErrIssuer        = errors.New("jwtx: issuer mismatch")
	ErrAudience      = errors.New("jwtx: audience mismatch")
	ErrNotYetValid   = errors.New("jwtx: token not yet valid")
	ErrMissingExpiry = errors.New("jwtx: missing exp claim")
	ErrInvalidClaim  = errors.New("jwtx: invalid claims")
)

func invalid(reason error) error {
	return fmt.Errorf("%w: %w", ErrTokenInvalid, reason)
}

// HS256Verifier validates JWTs signed with HS256 and a shared secret.
type HS256Verifier struct {
	key  []byte
	opts VerifyOptions
}

// NewVerifierHS256 creates a verifier for tokens signed with key.
func NewVerifierHS256(key []byte, opts VerifyOptions) *HS256Verifier {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &HS256Verifier{key: append([]byte(nil), key...), opts: opts}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	// Time based checks run below against the injected clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return Claims{}, invalid(ErrInvalidSig)
		default:
			return Claims{}, invalid(fmt.Errorf("%w: %v", ErrMalformed, err))
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, invalid(ErrInvalidClaim)
	}

	// Now check all the claim requirements
	if err := claims.ValidateExpiry(v.opts.Now()); err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return Claims{}, err
		}
		return Claims{}, invalid(err)
	}
	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, invalid(err)
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return Claims{}, invalid(err)
	}
	if claims.Subject == "" {
		return Claims{}, invalid(ErrInvalidClaim)
	}

	return *claims, nil
}
