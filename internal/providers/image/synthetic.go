package image

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
)

// SyntheticGenerator renders deterministic placeholder images locally so the
// whole flow can run without a Gemini credential. It is only selected through
// configuration, never as a silent fallback for a failed remote call.
type SyntheticGenerator struct {
	// Count is how many images to render per request, clamped to 1..4.
	Count int
}

func (s *SyntheticGenerator) Generate(ctx context.Context, req GenerateRequest) ([]Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	count := s.Count
	if count <= 0 {
		count = 1
	}
	if count > 4 {
		count = 4
	}

	assets := make([]Asset, count)
	for i := range assets {
		seed := syntheticSeed(req.Instruction, req.Source.MIME, i)
		assets[i] = Asset{Format: "image/png", Data: renderSyntheticImage(768, 768, seed)}
	}
	return assets, nil
}

func syntheticSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(hasher, "%v|", part)
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

// renderSyntheticImage draws a seeded banner: a base field, horizontal
// stripes and a diagonal sash, so distinct requests are visually distinct.
func renderSyntheticImage(width, height int, seed string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := max(32, height/12)
	for y := 0; y < height; y += stripeHeight * 2 {
		stripe := image.Rect(0, y, width, min(height, y+stripeHeight))
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}

	sash := colorFromSeed(seed, 2)
	for i := 0; i < max(width, height); i += max(16, width/32) {
		for y := 0; y < height; y++ {
			x := i + y
			if x >= width {
				break
			}
			img.Set(x, y, sash)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if seed == "" {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{
		R: parseHexByte(segment[0:2]),
		G: parseHexByte(segment[2:4]),
		B: parseHexByte(segment[4:6]),
		A: 255,
	}
}

func parseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}
