// Package auth issues and verifies the bearer tokens that gate the dashboard
// API, and hashes the passwords of dashboard users.
//
// Tokens are HS256 JWTs whose subject is the user's e-mail. They are
// stateless: there is no server-side session, and the identity is handed
// to handlers explicitly through the request context by the HTTP middleware.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned by Parse for any malformed, expired, forged or
// otherwise unacceptable token. The cause is wrapped for logging.
var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and verifies signed access tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using secret for HS256 signatures.
func NewTokens(secret, issuer string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source (tests).
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	cp := *t
	cp.now = now
	return &cp
}

// Issue signs a token for email and returns it with its expiry.
func (t *Tokens) Issue(email string) (string, time.Time, error) {
	now := t.now().UTC()
	exp := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   email,
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies raw and returns the e-mail it was issued for.
func (t *Tokens) Parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(tok *jwt.Token) (any, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
			}
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
