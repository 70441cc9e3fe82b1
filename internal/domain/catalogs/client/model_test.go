package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "AB", NormalizeCode("ab"))
	assert.Equal(t, "AB", NormalizeCode("  Ab "))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestClient_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		c := New("ab", "Tartak Abramowski")
		c.NIP = "5260305006"
		c.Email = "biuro@tartak.pl"
		require.NoError(t, c.Validate(ctx))
		assert.Equal(t, "AB", c.Code)
	})

	t.Run("code must be two letters", func(t *testing.T) {
		for _, code := range []string{"", "A", "ABC", "A1", "a-"} {
			c := New(code, "Tartak")
			assert.Error(t, c.Validate(ctx), "code %q must be rejected", code)
		}
	})

	t.Run("nip optional but checked", func(t *testing.T) {
		c := New("AB", "Tartak")
		require.NoError(t, c.Validate(ctx))

		c.NIP = "123"
		assert.Error(t, c.Validate(ctx))

		c.NIP = "1234567890"
		assert.NoError(t, c.Validate(ctx))
	})

	t.Run("email checked when set", func(t *testing.T) {
		c := New("AB", "Tartak")
		c.Email = "not-an-email"
		assert.Error(t, c.Validate(ctx))
	})

	t.Run("name required", func(t *testing.T) {
		c := New("AB", "")
		assert.Error(t, c.Validate(ctx))
	})
}
