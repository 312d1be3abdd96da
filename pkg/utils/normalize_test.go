package utils

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestNormalizeSlipImageReencodesAsJPEG(t *testing.T) {
	out, err := NormalizeSlipImage(encodePNG(t, 64, 32), 1200, 85)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestNormalizeSlipImageShrinksWideImages(t *testing.T) {
	out, err := NormalizeSlipImage(encodePNG(t, 2400, 1200), 1200, 85)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
}

func TestNormalizeSlipImageRejectsGarbage(t *testing.T) {
	_, err := NormalizeSlipImage([]byte("not an image"), 1200, 85)
	require.Error(t, err)

	_, err = NormalizeSlipImage(nil, 1200, 85)
	require.Error(t, err)
}
