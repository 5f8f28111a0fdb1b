package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/communitycore/membership-system/internal/core/domain"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies HS256-signed session tokens. Tokens are
// stateless: validity is a function of signature and expiry only, so there
// is no revocation before expiry (documented tradeoff).
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. If ttl <= 0 the 7-day default is
// used. An empty secret is tolerated here so construction can happen before
// config validation, but Issue and Verify fail on it.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token carrying subjectID and an absolute expiry.
func (s *TokenService) Issue(subjectID string) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrNoSigningSecret
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates signature and expiry and returns the subject id. Every
// failure mode collapses to domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrNoSigningSecret
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}

	return claims.Subject, nil
}
