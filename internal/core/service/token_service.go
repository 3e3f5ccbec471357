package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quillcms/quill/internal/core/domain"
)

// TokenService signs and verifies claim sets with a symmetric secret. The
// algorithm is deployment configuration; only the configured HMAC variant
// is ever accepted during verification.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
}

func NewTokenService(secret, algorithm string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is empty")
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("token: unsupported algorithm %q", algorithm)
	}

	return &TokenService{secret: []byte(secret), method: method}, nil
}

// Encode stamps iat and exp on the claims and returns the signed token.
// The exp claim is always present; tokens without an expiry are never minted.
func (s *TokenService) Encode(claims *domain.Claims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry. Failures collapse to three
// sentinels so callers can tell tampering, expiry and garbage apart while
// still surfacing a uniform 401 to clients.
func (s *TokenService) Decode(tokenString string) (*domain.Claims, error) {
	claims := &domain.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, domain.ErrTokenSignature
	}
	return claims, nil
}
