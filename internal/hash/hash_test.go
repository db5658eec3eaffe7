package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("pw123")
	require.NoError(t, err)
	require.NotEmpty(t, h)
	assert.NotEqual(t, "pw123", h)

	assert.True(t, CheckPassword(h, "pw123"))
}

func TestHashPassword_UniqueSaltPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("pw123")
	require.NoError(t, err)
	h2, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword(h1, "pw123"))
	assert.True(t, CheckPassword(h2, "pw123"))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.False(t, CheckPassword(h, "pw124"))
	assert.False(t, CheckPassword(h, ""))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "garbage", hash: "not-a-bcrypt-hash"},
		{name: "truncated", hash: "$2a$10$abc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, CheckPassword(tt.hash, "pw123"))
		})
	}
}

func TestHasher_CustomCost(t *testing.T) {
	t.Parallel()

	h := Hasher{Cost: 4}
	digest, err := h.HashPassword("pw123")
	require.NoError(t, err)
	assert.True(t, h.CheckPassword(digest, "pw123"))
}
