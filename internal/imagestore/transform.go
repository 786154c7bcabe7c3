package imagestore

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Fixed transformation policy applied to every upload: bound to 800x600
// (never upscaled) and re-encode as JPEG.
const (
	maxWidth    = 800
	maxHeight   = 600
	jpegQuality = 85
)

func normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxWidth || b.Dy() > maxHeight {
		img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
