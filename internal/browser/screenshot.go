package browser

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
)

// writePNG stores a PNG capture at path, downscaled to maxWidth when it is wider.
func writePNG(path string, data []byte, maxWidth uint) error {
	if path == "" {
		return fmt.Errorf("screenshot path is empty")
	}

	if maxWidth > 0 {
		scaled, err := downscale(data, maxWidth)
		if err != nil {
			return err
		}
		data = scaled
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}

// downscale resizes a PNG to maxWidth keeping the aspect ratio. Narrower images are returned untouched.
func downscale(data []byte, maxWidth uint) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) <= maxWidth {
		return data, nil
	}

	aspectRatio := float64(bounds.Dy()) / float64(bounds.Dx())
	height := uint(float64(maxWidth) * aspectRatio)
	if height == 0 {
		height = 1
	}

	resized := resize.Resize(maxWidth, height, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}
