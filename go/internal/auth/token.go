package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
)

// TokenTTL is how long an issued bearer token stays valid
const TokenTTL = 24 * time.Hour

// Claims is the payload carried by every bearer token
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`

	jwt.RegisteredClaims
}

// Verifier validates a bearer token and returns its claims
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// TokenIssuer signs and verifies HS256 tokens with a shared secret
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewTokenIssuer creates a TokenIssuer. A nil clock uses the real clock.
func NewTokenIssuer(secret string, clock clockwork.Clock) *TokenIssuer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    TokenTTL,
		clock:  clock,
	}
}

// Issue returns a signed token for the given user
func (i *TokenIssuer) Issue(userID int64, username string) (string, error) {
	now := i.clock.Now()
	claims := &Claims{
		ID:       userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and checks its signature and expiry
func (i *TokenIssuer) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, apperr.Auth("verify token", "No token provided")
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Auth("verify token", "Token expired")
		}
		return nil, apperr.Auth("verify token", "Invalid or expired token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID <= 0 {
		return nil, apperr.Auth("verify token", "Invalid or expired token")
	}
	return claims, nil
}
