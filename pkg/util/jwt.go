package util

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken also matches ErrInvalidToken.
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)
)

// Claims carries the token subject (username) plus registered claims.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed session tokens. It is built
// once at startup and is safe for concurrent use.
type TokenService struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt ttl must be positive")
	}

	var method *jwt.SigningMethodHMAC
	switch strings.ToUpper(algorithm) {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service reading time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.now = now
	return &clone
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject that expires at issued-at + ttl. A
// non-positive ttl falls back to the configured default.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, errors.New("token subject is required")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	// NumericDate has second precision; iat and exp must agree with it.
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks signature, algorithm and expiry. The token is valid strictly
// before its exp instant.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}
