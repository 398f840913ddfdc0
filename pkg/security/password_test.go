package security

import (
	"strings"
	"testing"

	"github.com/CAHEKA/servisRest/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordConfig() config.PasswordConfig {
	// Low-cost parameters keep the test fast.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("hunter2", testPasswordConfig())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := VerifyPassword("hunter2", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("", testPasswordConfig())
	require.Error(t, err)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("hunter2", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = VerifyPassword("hunter2", "$bcrypt$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	first, err := HashPassword("hunter2", testPasswordConfig())
	require.NoError(t, err)
	second, err := HashPassword("hunter2", testPasswordConfig())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
