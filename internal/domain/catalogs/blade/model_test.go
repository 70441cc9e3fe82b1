package blade

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
)

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusDull, StatusPitchBuildup, StatusScrapped} {
		assert.True(t, s.Valid(), "status %s", s)
	}
	for _, s := range []Status{"", "c15", "c99", "ok"} {
		assert.False(t, s.Valid(), "status %s", s)
	}
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "no issues", StatusOK.Label())
	assert.Equal(t, "scrapped", StatusScrapped.Label())
	assert.Equal(t, "c99", Status("c99").Label())
}

func TestBlade_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		b := New("BL-00001", "Pila 35")
		require.NoError(t, b.Validate(ctx))
		assert.Equal(t, StatusOK, b.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		b := New("BL-00001", "Pila 35")
		b.Status = "c99"
		assert.Error(t, b.Validate(ctx))
	})

	t.Run("negative dimension", func(t *testing.T) {
		b := New("BL-00001", "Pila 35")
		b.Width = decimal.RequireFromString("-1")
		assert.Error(t, b.Validate(ctx))
	})
}

func TestBlade_SetStatus(t *testing.T) {
	b := New("BL-00001", "Pila 35")

	require.NoError(t, b.SetStatus(StatusCracked))
	assert.Equal(t, StatusCracked, b.Status)

	// Any valid code is allowed, including going back to OK.
	require.NoError(t, b.SetStatus(StatusOK))

	err := b.SetStatus("c99")
	require.Error(t, err)
	assert.Equal(t, StatusOK, b.Status, "a rejected code must not stick")
}

func TestBlade_Assigned(t *testing.T) {
	b := New("BL-00001", "Pila 35")
	assert.False(t, b.Assigned())

	clientID := id.New()
	b.ClientID = &clientID
	assert.True(t, b.Assigned())

	nilID := id.Nil()
	b.ClientID = &nilID
	assert.False(t, b.Assigned())
}
