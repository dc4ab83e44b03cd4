package image

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"heroshot/internal/infra"
)

const defaultGeminiModel = "gemini-2.5-flash-image-preview"

// GeminiOptions controls how the Gemini generator is configured.
type GeminiOptions struct {
	Model  string
	Logger *infra.Logger
}

// GeminiGenerator produces images through the Gemini API. Each request sends
// the portrait and the instruction as a single user turn and asks for image
// and text response modalities; every inline image part of the reply becomes
// one asset.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *infra.Logger
}

// NewGeminiGenerator wraps an already constructed SDK client.
func NewGeminiGenerator(client *genai.Client, opts GeminiOptions) *GeminiGenerator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	logger := opts.Logger
	if logger == nil {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &GeminiGenerator{client: client, model: model, logger: logger}
}

// Model returns the configured Gemini model identifier.
func (g *GeminiGenerator) Model() string {
	return g.model
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) ([]Asset, error) {
	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: req.Source.MIME, Data: req.Source.Data}},
		genai.NewPartFromText(req.Instruction),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	assets, note := collectAssets(resp)
	if note != "" {
		g.logger.Debug().
			Str("model", g.model).
			Str("note", note).
			Msg("gemini: response carried text parts")
	}
	if len(assets) == 0 {
		if note != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoImage, note)
		}
		return nil, ErrNoImage
	}
	return assets, nil
}

// collectAssets pulls every inline image out of the first candidate and joins
// whatever text the model produced alongside, which is useful when a refusal
// arrives as prose instead of an error.
func collectAssets(resp *genai.GenerateContentResponse) ([]Asset, string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ""
	}

	var assets []Asset
	var notes []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			format := part.InlineData.MIMEType
			if format == "" {
				format = "image/png"
			}
			assets = append(assets, Asset{Format: format, Data: part.InlineData.Data})
			continue
		}
		if text := strings.TrimSpace(part.Text); text != "" {
			notes = append(notes, text)
		}
	}
	return assets, strings.Join(notes, " ")
}
