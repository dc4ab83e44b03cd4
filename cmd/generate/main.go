package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"heroshot/internal/hero"
	"heroshot/internal/infra"
	"heroshot/internal/providers/image"
)

// generate runs one transformation from the command line: useful for smoke
// testing a provider credential without standing up the web studio.
func main() {
	var (
		imagePath string
		theme     string
		outDir    string
	)
	flag.StringVar(&imagePath, "image", "", "path to the portrait to transform")
	flag.StringVar(&theme, "theme", "Marvel", "superhero universe to apply")
	flag.StringVar(&outDir, "out", ".", "directory to write generated images to")
	flag.Parse()

	if strings.TrimSpace(imagePath) == "" {
		fmt.Fprintln(os.Stderr, "-image is required")
		os.Exit(1)
	}
	theme = strings.TrimSpace(theme)
	if theme == "" {
		fmt.Fprintln(os.Stderr, "-theme must not be empty")
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "generate").Logger()

	data, err := os.ReadFile(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read image: %v\n", err)
		os.Exit(1)
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		fmt.Fprintf(os.Stderr, "%s is not an image (%s)\n", imagePath, mimeType)
		os.Exit(1)
	}

	var generator image.Generator
	switch cfg.ImageProvider {
	case infra.ProviderSynthetic:
		generator = &image.SyntheticGenerator{}
	case infra.ProviderQwen:
		generator = image.NewQwenGenerator(image.QwenOptions{
			APIKey:  cfg.QwenAPIKey,
			BaseURL: cfg.QwenBaseURL,
			Model:   cfg.QwenModel,
			Logger:  &logger,
		})
	default:
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "create gemini client: %v\n", err)
			os.Exit(1)
		}
		generator = image.NewGeminiGenerator(client, image.GeminiOptions{
			Model:  cfg.GeminiModel,
			Logger: &logger,
		})
	}

	ctx := context.Background()
	if cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.GenerateTimeout)
		defer cancel()
	}

	assets, err := generator.Generate(ctx, image.GenerateRequest{
		Instruction: hero.BuildInstruction(theme),
		Source:      image.SourceImage{MIME: mimeType, Data: data},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output directory: %v\n", err)
		os.Exit(1)
	}
	now := time.Now()
	for i, asset := range assets {
		name := hero.ResultFilename(theme, now, i, asset.Format)
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, asset.Data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%s, %d bytes)\n", path, asset.Format, len(asset.Data))
	}
}
