package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hp := HashPassword("creeper? aw man")
	assert.Equal(t, Argon2id, hp.Algorithm)
	assert.False(t, hp.IsOutdated())

	parsed, err := ParsePasswordString(hp.String())
	require.NoError(t, err)
	assert.Equal(t, hp, parsed)

	ok, err := CheckPassword("creeper? aw man", parsed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword("wrong password", parsed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParsePasswordStringRejectsGarbage(t *testing.T) {
	_, err := ParsePasswordString("not-a-password-string")
	assert.Error(t, err)
}

func TestLegacyHashesAreOutdated(t *testing.T) {
	hp := HashedPassword{Algorithm: Django_PBKDF2SHA256}
	assert.True(t, hp.IsOutdated())
}
