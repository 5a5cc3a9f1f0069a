package hashutil_test

import (
	"testing"

	"contactbook/pkg/hashutil"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashutil.HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, hashutil.VerifyPassword("password123", hash))
	assert.False(t, hashutil.VerifyPassword("password124", hash))
	assert.False(t, hashutil.VerifyPassword("", hash))
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	first, err := hashutil.HashPassword("password123")
	assert.NoError(t, err)
	second, err := hashutil.HashPassword("password123")
	assert.NoError(t, err)

	// bcrypt salts every call, so equal inputs hash differently
	assert.NotEqual(t, first, second)
	assert.True(t, hashutil.VerifyPassword("password123", first))
	assert.True(t, hashutil.VerifyPassword("password123", second))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, hashutil.VerifyPassword("password123", "not-a-bcrypt-hash"))
	assert.False(t, hashutil.VerifyPassword("password123", ""))
}
