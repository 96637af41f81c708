package auth

import (
	"strings"
	"testing"

	domainerrors "authcore/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2idHasher_Hash(t *testing.T) {
	hasher := NewArgon2idHasher()

	t.Run("produces PHC encoded hash", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))
		assert.Len(t, strings.Split(hash, "$"), 6)
	})

	t.Run("same password produces different hashes", func(t *testing.T) {
		hash1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		hash2, err := hasher.Hash("samepassword")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
		assert.True(t, hasher.Check("samepassword", hash1))
		assert.True(t, hasher.Check("samepassword", hash2))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.True(t, errors.Is(err, domainerrors.ErrEmptyPassword))
	})

	t.Run("rejects oversized password", func(t *testing.T) {
		_, err := hasher.Hash(strings.Repeat("x", argon2MaxPasswordBytes+1))
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordTooLong))
	})
}

func TestArgon2idHasher_Check(t *testing.T) {
	hasher := NewArgon2idHasher()

	hash, err := hasher.Hash("correctpassword")
	require.NoError(t, err)

	t.Run("correct password verifies", func(t *testing.T) {
		assert.True(t, hasher.Check("correctpassword", hash))
	})

	t.Run("incorrect password fails", func(t *testing.T) {
		assert.False(t, hasher.Check("wrongpassword", hash))
	})

	t.Run("malformed hashes fail closed", func(t *testing.T) {
		parts := strings.Split(hash, "$")

		malformed := []string{
			"",
			"invalid",
			"$2a$10$abcdefghijklmnopqrstuv",
			"$argon2i$v=19$m=65536,t=1,p=4$" + parts[4] + "$" + parts[5],
			"$argon2id$v=18$m=65536,t=1,p=4$" + parts[4] + "$" + parts[5],
			"$argon2id$v=19$m=65536,t=1,p=0$" + parts[4] + "$" + parts[5],
			"$argon2id$v=19$m=65536,t=1,p=256$" + parts[4] + "$" + parts[5],
			"$argon2id$v=19$m=65536,t=1,p=4$!!!$" + parts[5],
			"$argon2id$v=19$m=65536,t=1,p=4$" + parts[4] + "$",
		}

		for _, encoded := range malformed {
			assert.False(t, hasher.Check("correctpassword", encoded), encoded)
		}
	})
}
