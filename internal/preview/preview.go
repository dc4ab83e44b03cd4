package preview

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Thumbnail downscales an uploaded image so the page shows a lightweight
// preview instead of the full upload. The result is always PNG and fits
// inside a maxPx square without changing aspect ratio; images already small
// enough pass through the resampler unchanged in size. Formats the decoder
// does not understand return an error and callers fall back to the original
// bytes.
func Thumbnail(data []byte, maxPx int) ([]byte, error) {
	if maxPx <= 0 {
		maxPx = 512
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(src, maxPx, maxPx, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
