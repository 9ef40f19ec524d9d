package browser

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return image.Point{X: cfg.Width, Y: cfg.Height}
}

func TestWritePNG(t *testing.T) {
	dir := t.TempDir()
	data := encodeTestPNG(t, 200, 100)

	t.Run("original size into nested dir", func(t *testing.T) {
		path := filepath.Join(dir, "shots", "a.png")
		require.NoError(t, writePNG(path, data, 0))

		written, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, data, written)
	})

	t.Run("downscaled keeps aspect ratio", func(t *testing.T) {
		path := filepath.Join(dir, "b.png")
		require.NoError(t, writePNG(path, data, 50))
		assert.Equal(t, image.Point{X: 50, Y: 25}, decodeSize(t, path))
	})

	t.Run("narrow capture is not upscaled", func(t *testing.T) {
		path := filepath.Join(dir, "c.png")
		require.NoError(t, writePNG(path, data, 800))
		assert.Equal(t, image.Point{X: 200, Y: 100}, decodeSize(t, path))
	})

	t.Run("empty path", func(t *testing.T) {
		assert.Error(t, writePNG("", data, 0))
	})

	t.Run("not a png", func(t *testing.T) {
		assert.Error(t, writePNG(filepath.Join(dir, "d.png"), []byte("nope"), 10))
	})
}
