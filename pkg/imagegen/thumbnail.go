package imagegen

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Thumbnail downscales an image to fit inside maxSize x maxSize and
// re-encodes it as JPEG for chat previews.
func Thumbnail(data []byte, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = 256
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
