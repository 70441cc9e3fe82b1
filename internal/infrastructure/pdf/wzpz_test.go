package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
)

func TestRender(t *testing.T) {
	doc := wzpz.New(wzpz.TypeWZ, id.New(), "AB", time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC), 1)

	out, err := Render(DocumentData{
		Document:   *doc,
		ClientName: "Tartak Abramowski",
		Lines: []Line{
			{BladeCode: "BL-00001", BladeName: "Pila 35", Status: "no issues", AddedAt: "2025-08-15 10:00"},
			{BladeCode: "BL-00002", BladeName: "Pila 40", Status: "dull", AddedAt: "2025-08-15 10:05"},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_EmptyDocument(t *testing.T) {
	doc := wzpz.New(wzpz.TypePZ, id.New(), "AB", time.Now().UTC(), 3)
	closedAt := time.Now().UTC()
	doc.Status = wzpz.StatusClosed
	doc.ClosedAt = &closedAt

	out, err := Render(DocumentData{Document: *doc, ClientName: "Tartak"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
