// Package auth provides JWT credentials, password hashing, and the HTTP
// middleware that enforces them.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User signs up or signs in (password or GitHub OAuth)
// 2. Server issues a JWT carrying the user ID and role, valid for 30 days
// 3. The client sends it back on every request in an Authorization: Bearer
//    header (the OAuth browser flow also gets it as an HttpOnly cookie)
// 4. Middleware validates the token and puts the identity in the request
//    context; handlers and services read it from there
//
// WHY A ROLE CLAIM IN THE TOKEN?
// Admin checks read the role straight from the verified token instead of
// re-fetching the user record on every admin request. That saves a DB
// round trip per request and means a request observes one consistent
// role for its whole lifetime. The trade-off: a role change only takes
// effect when the user gets a fresh token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid. Thirty days keeps
// casual users signed in between visits; there is no refresh flow.
const TokenTTL = 30 * 24 * time.Hour

const issuer = "rewear"

// Identity is the verified content of a token: who the caller is and
// what they may do.
type Identity struct {
	UserID string
	Role   string
}

// TokenService signs and verifies JWTs with an HMAC secret.
// The same secret must be used for both operations — keep it safe,
// rotate it periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload: the standard registered claims (we use
// "sub" for the user ID) plus our custom role claim.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and fine
// for a single-server deployment where one secret does both jobs.
func (s *TokenService) Generate(userID, role string) (string, error) {
	return s.GenerateWithDuration(userID, role, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID, role string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the identity it
// encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches ours (prevents tokens minted by other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return &Identity{UserID: c.Subject, Role: c.Role}, nil
}
