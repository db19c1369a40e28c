package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundtrip(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, hasher.Verify("s3cret-pass", hash))
	assert.False(t, hasher.Verify("wrong-pass", hash))
	assert.False(t, hasher.Verify("", hash))
}

func TestBcryptHasherDefaultCost(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	malformed := []string{
		"",
		"not-a-hash",
		"$2a$broken",
		"$pbkdf2-sha256$",
		"$pbkdf2-sha256$29000$salt",
		"$pbkdf2-sha256$zero$MDEyMw$MDEyMw",
		"$pbkdf2-sha256$-1$MDEyMw$MDEyMw",
		"$pbkdf2-sha256$29000$!!invalid!!$MDEyMw",
		"$pbkdf2-sha256$29000$MDEyMw$!!invalid!!",
	}

	for _, hash := range malformed {
		assert.False(t, hasher.Verify("password", hash), "hash %q should not verify", hash)
	}
}

func TestVerifyLegacyPBKDF2(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	// Hashes produced by passlib's pbkdf2_sha256 with a fixed salt.
	cases := []struct {
		name     string
		password string
		hash     string
	}{
		{
			name:     "passphrase",
			password: "correct horse battery staple",
			hash:     "$pbkdf2-sha256$29000$MDEyMzQ1Njc4OWFiY2RlZg$vajIaozrb7q4x.G3R5Y.FIe07ZH3QEjPYV1bs8kEikU",
		},
		{
			name:     "short secret",
			password: "s3cret-legacy",
			hash:     "$pbkdf2-sha256$29000$MDEyMzQ1Njc4OWFiY2RlZg$8FvuYGw7lU.5rJEM7evnHqH4gzI6EtMEtQiFRYghV/0",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, hasher.Verify(tc.password, tc.hash))
			assert.False(t, hasher.Verify(tc.password+"x", tc.hash))
			assert.False(t, hasher.Verify("", tc.hash))
		})
	}
}

func TestVerifyDispatchesOnPrefix(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	// A bcrypt hash of a password that happens to start with the legacy
	// scheme's literal text must still verify through bcrypt.
	hash, err := hasher.Hash("$pbkdf2-sha256$trap")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("$pbkdf2-sha256$trap", hash))
}
