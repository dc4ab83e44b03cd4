package image

import (
	"context"
	"errors"
)

// SourceImage is the uploaded portrait a generation request conditions on.
type SourceImage struct {
	MIME string
	Data []byte
}

// GenerateRequest describes a normalized request passed to any image provider.
type GenerateRequest struct {
	Instruction string
	Source      SourceImage
}

// Asset represents one generated image.
type Asset struct {
	Format string
	Data   []byte
}

// ErrNoImage reports a response that completed without a single image part.
// Callers treat it like any other provider failure.
var ErrNoImage = errors.New("no image in response")

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]Asset, error)
}
