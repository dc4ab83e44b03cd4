package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"heroshot/internal/infra"
)

const (
	defaultQwenBaseURL = "https://dashscope-intl.aliyuncs.com/api/v1"
	defaultQwenModel   = "qwen-image-edit"
)

var errQwenMissingKey = errors.New("qwen: api key is required")

// QwenOptions configures the DashScope-backed generator.
type QwenOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// QwenGenerator edits the portrait through DashScope's multimodal generation
// API. The portrait travels inline as a data URL next to the instruction
// text; returned images arrive as remote URLs or data URLs and are normalized
// into assets. One request per attempt, no retries.
type QwenGenerator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

func NewQwenGenerator(opts QwenOptions) *QwenGenerator {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultQwenBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultQwenModel
	}
	logger := opts.Logger
	if logger == nil {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &QwenGenerator{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}
}

var _ Generator = (*QwenGenerator)(nil)

// Model returns the configured model identifier.
func (g *QwenGenerator) Model() string {
	return g.model
}

type qwenRequest struct {
	Model      string     `json:"model"`
	Input      qwenInput  `json:"input"`
	Parameters qwenParams `json:"parameters"`
}

type qwenInput struct {
	Messages []qwenMessage `json:"messages"`
}

type qwenMessage struct {
	Role    string        `json:"role"`
	Content []qwenContent `json:"content"`
}

type qwenContent struct {
	Image string `json:"image,omitempty"`
	Text  string `json:"text,omitempty"`
}

type qwenParams struct {
	Watermark bool `json:"watermark"`
}

type qwenResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content []qwenContent `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (g *QwenGenerator) Generate(ctx context.Context, req GenerateRequest) ([]Asset, error) {
	if g.apiKey == "" {
		return nil, errQwenMissingKey
	}

	payload := qwenRequest{
		Model: g.model,
		Input: qwenInput{Messages: []qwenMessage{{
			Role: "user",
			Content: []qwenContent{
				{Image: sourceDataURL(req.Source)},
				{Text: req.Instruction},
			},
		}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("qwen: encode request: %w", err)
	}

	endpoint := g.baseURL + "/services/aigc/multimodal-generation/generation"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("qwen: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("qwen: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("qwen: read response: %w", err)
	}

	var decoded qwenResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("qwen: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return nil, fmt.Errorf("qwen: decode response: %w", err)
	}
	if resp.StatusCode >= 300 || decoded.Code != "" {
		if decoded.Message != "" {
			return nil, fmt.Errorf("qwen: %s (%s)", decoded.Message, decoded.Code)
		}
		return nil, fmt.Errorf("qwen: status %d", resp.StatusCode)
	}

	assets, err := g.collectQwenAssets(ctx, decoded)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, ErrNoImage
	}

	g.logger.Debug().
		Str("model", g.model).
		Str("request_id", decoded.RequestID).
		Int("images", len(assets)).
		Msg("qwen: generated image assets")
	return assets, nil
}

// collectQwenAssets resolves every image reference in the response, data URLs
// inline and remote URLs through one download each.
func (g *QwenGenerator) collectQwenAssets(ctx context.Context, resp qwenResponse) ([]Asset, error) {
	var assets []Asset
	for _, choice := range resp.Output.Choices {
		for _, content := range choice.Message.Content {
			ref := strings.TrimSpace(content.Image)
			if ref == "" {
				continue
			}
			if strings.HasPrefix(ref, "data:") {
				asset, err := assetFromDataURL(ref)
				if err != nil {
					return nil, err
				}
				assets = append(assets, asset)
				continue
			}
			asset, err := g.download(ctx, ref)
			if err != nil {
				return nil, err
			}
			assets = append(assets, asset)
		}
	}
	return assets, nil
}

func (g *QwenGenerator) download(ctx context.Context, imageURL string) (Asset, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Scheme == "" {
		return Asset{}, fmt.Errorf("qwen: invalid image url: %s", imageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return Asset{}, fmt.Errorf("qwen: build download request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("qwen: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Asset{}, fmt.Errorf("qwen: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Asset{}, fmt.Errorf("qwen: read image: %w", err)
	}
	format := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(format, "image/") {
		format = "image/png"
	}
	return Asset{Format: format, Data: data}, nil
}

func sourceDataURL(src SourceImage) string {
	mime := src.MIME
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(src.Data)
}

func assetFromDataURL(ref string) (Asset, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return Asset{}, errors.New("qwen: invalid data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Asset{}, errors.New("qwen: invalid data url")
	}
	format := strings.TrimSuffix(meta, ";base64")
	if !strings.HasPrefix(format, "image/") {
		format = "image/png"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Asset{}, fmt.Errorf("qwen: decode data url: %w", err)
	}
	return Asset{Format: format, Data: data}, nil
}
