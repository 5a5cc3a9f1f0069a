package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Token lifetimes for the three token kinds sharing one signing scheme.
const (
	AccessTokenTTL       = 30 * time.Minute
	RefreshTokenTTL      = 7 * 24 * time.Hour
	VerificationTokenTTL = 24 * time.Hour
)

// ErrInvalidToken covers every decode failure: bad signature, tampered
// payload, wrong algorithm, expiry. Callers never learn which one, so
// clients cannot probe the verification details.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and validates stateless HS256 tokens. Validity is
// determined entirely by signature and expiry at decode time; there is
// no server-side token store and no revocation path.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a new TokenService signing with secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue creates a signed token for subject expiring after ttl.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   subject,
		ExpiresAt: now.Add(ttl).Unix(),
		IssuedAt:  now.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token's signature, signing method and expiry and
// returns the subject. Any failure collapses into ErrInvalidToken.
func (s *TokenService) Decode(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.StandardClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
