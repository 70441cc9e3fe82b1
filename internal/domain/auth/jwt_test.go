package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/appctx"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "qrsaws", time.Hour)

	actor := appctx.Actor{
		ID:    "warehouse-app",
		Email: "magazyn@tartak.pl",
		Name:  "Warehouse",
		Admin: true,
	}

	token, err := svc.Generate(actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, got.ID)
	assert.Equal(t, actor.Email, got.Email)
	assert.Equal(t, actor.Name, got.Name)
	assert.True(t, got.Admin)
}

func TestJWT_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "qrsaws", time.Hour)
	verifier := NewJWTService("secret-b", "qrsaws", time.Hour)

	token, err := issuer.Generate(appctx.Actor{ID: "x"})
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestJWT_WrongIssuer(t *testing.T) {
	issuer := NewJWTService("secret", "someone-else", time.Hour)
	verifier := NewJWTService("secret", "qrsaws", time.Hour)

	token, err := issuer.Generate(appctx.Actor{ID: "x"})
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	svc := NewJWTService("secret", "qrsaws", time.Hour)

	// NewJWTService refuses non-positive TTLs, so build one expired by hand.
	svc.tokenTTL = -time.Minute
	token, err := svc.Generate(appctx.Actor{ID: "x"})
	require.NoError(t, err)

	svc.tokenTTL = time.Hour
	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWT_Garbage(t *testing.T) {
	svc := NewJWTService("secret", "qrsaws", time.Hour)

	for _, token := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		_, err := svc.Validate(token)
		assert.Error(t, err, "token %q", token)
	}
}
