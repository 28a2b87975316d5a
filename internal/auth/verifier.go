// Package auth verifies bearer credentials and gates requests by role.
//
// Tokens are issued by the identity provider, not by this server. All this
// package does is check the signature and expiry of an incoming token and
// extract the principal's email, which downstream code treats as authentic.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingCredential means no Authorization header was present.
	ErrMissingCredential = errors.New("auth: missing credential")
	// ErrInvalidCredential means the token failed verification; expired,
	// malformed, or signed with the wrong key.
	ErrInvalidCredential = errors.New("auth: invalid credential")
)

// Verifier validates a bearer credential and returns the principal's email.
// The request-gating middleware depends on this interface, not on the JWT
// implementation, so tests can substitute a stub.
type Verifier interface {
	Verify(ctx context.Context, authorization string) (string, error)
}

// TokenVerifier verifies HS256 JWTs against the identity provider's shared
// verification key. The email lives in the "sub" claim.
type TokenVerifier struct {
	key []byte
}

// NewTokenVerifier creates a TokenVerifier with the given verification key.
// The key must match the one the identity provider signs with.
func NewTokenVerifier(key string) (*TokenVerifier, error) {
	if len(key) < 16 {
		return nil, errors.New("auth: verification key must be at least 16 characters")
	}
	return &TokenVerifier{key: []byte(key)}, nil
}

// Verify checks an Authorization header value of the form "Bearer <token>".
//
// Returns ErrMissingCredential when the header is absent and
// ErrInvalidCredential for anything that fails to parse or verify. On success
// the returned email is the authenticated principal for the rest of the
// request.
func (v *TokenVerifier) Verify(_ context.Context, authorization string) (string, error) {
	if authorization == "" {
		return "", ErrMissingCredential
	}

	tokenStr, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || tokenStr == "" {
		return "", fmt.Errorf("%w: malformed Authorization header", ErrInvalidCredential)
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HMAC; prevents
			// algorithm confusion attacks.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.key, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: token expired", ErrInvalidCredential)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%w: invalid claims", ErrInvalidCredential)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrInvalidCredential)
	}

	return claims.Subject, nil
}

// Issue signs a token for the given email. The server never issues tokens in
// production (the identity provider does); this exists for tests and local
// development against the same verification key.
func (v *TokenVerifier) Issue(email string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.key)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}
