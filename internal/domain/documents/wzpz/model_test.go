package wzpz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/numerator"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		code  string
		year  int
		month time.Month
		seq   int64
		want  string
	}{
		{"first of month", "WZ", "AB", 2025, time.August, 1, "WZ/AB/2025/08/001"},
		{"receipt", "PZ", "XY", 2024, time.January, 42, "PZ/XY/2024/01/042"},
		{"december", "WZ", "AB", 2025, time.December, 999, "WZ/AB/2025/12/999"},
		{"sequence grows past padding", "WZ", "AB", 2025, time.August, 1234, "WZ/AB/2025/08/1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := numerator.FormatNumber(tt.typ, tt.code, tt.year, tt.month, tt.seq)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_FreezesNumberAtCreation(t *testing.T) {
	clientID := id.New()
	period := time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)

	doc := New(TypeWZ, clientID, "AB", period, 7)

	assert.Equal(t, "WZ/AB/2025/08/007", doc.Number)
	assert.Equal(t, StatusOpen, doc.Status)
	assert.Equal(t, 2025, doc.Year)
	assert.Equal(t, time.August, doc.Month)
	assert.Equal(t, int64(7), doc.Sequence)
	assert.True(t, doc.Open())

	// The number embeds the code by value; changing the field afterwards
	// must not affect it.
	doc.ClientCode = "ZZ"
	assert.Equal(t, "WZ/AB/2025/08/007", doc.Number)
}

func TestDocument_Validate(t *testing.T) {
	ctx := context.Background()
	period := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		doc := New(TypePZ, id.New(), "AB", period, 1)
		require.NoError(t, doc.Validate(ctx))
	})

	t.Run("bad type", func(t *testing.T) {
		doc := New("XX", id.New(), "AB", period, 1)
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("missing client", func(t *testing.T) {
		doc := New(TypeWZ, id.Nil(), "AB", period, 1)
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("zero sequence", func(t *testing.T) {
		doc := New(TypeWZ, id.New(), "AB", period, 0)
		assert.Error(t, doc.Validate(ctx))
	})
}
