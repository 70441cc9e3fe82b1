package qr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestPayload(t *testing.T) {
	assert.Equal(t, "qrsaws:blade:BL-00001", Payload("BL-00001"))
}

func TestLabelPNG(t *testing.T) {
	png, err := LabelPNG("BL-00001", 256)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestLabelPNG_DefaultSize(t *testing.T) {
	png, err := LabelPNG("BL-00001", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}
