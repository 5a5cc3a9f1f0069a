package services_test

import (
	"testing"
	"time"

	"contactbook/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

func TestTokenIssueAndDecode(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	token, err := tokens.Issue("user@example.com", services.AccessTokenTTL)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := tokens.Decode(token)
	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", subject)
}

func TestTokenDecodeExpired(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	token, err := tokens.Issue("user@example.com", -time.Minute)
	assert.NoError(t, err)

	_, err = tokens.Decode(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenDecodeWrongSecret(t *testing.T) {
	issued, err := services.NewTokenService("secret_one").Issue("user@example.com", time.Minute)
	assert.NoError(t, err)

	_, err = services.NewTokenService("secret_two").Decode(issued)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenDecodeTampered(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	token, err := tokens.Issue("user@example.com", time.Minute)
	assert.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = tokens.Decode(tampered)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenDecodeWrongAlgorithm(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	// "none"-algorithm tokens must never validate, even with a correct
	// payload shape.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.StandardClaims{
		Subject:   "user@example.com",
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = tokens.Decode(raw)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenDecodeMalformed(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := tokens.Decode(raw)
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	}
}

func TestTokenDecodeMissingSubject(t *testing.T) {
	tokens := services.NewTokenService("test_jwt_secret")

	token, err := tokens.Issue("", time.Minute)
	assert.NoError(t, err)

	_, err = tokens.Decode(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
