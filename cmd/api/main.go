package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"heroshot/internal/hero"
	"heroshot/internal/http/handlers"
	"heroshot/internal/http/httpapi"
	"heroshot/internal/infra"
	"heroshot/internal/page"
	"heroshot/internal/providers/image"
	"heroshot/internal/session"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		boot := infra.NewLogger("production")
		boot.Fatal().Err(err).Msg("load config")
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	var generator image.Generator
	switch cfg.ImageProvider {
	case infra.ProviderSynthetic:
		generator = &image.SyntheticGenerator{}
		logger.Warn().Msg("synthetic image provider selected; results are placeholders")
	case infra.ProviderQwen:
		generator = image.NewQwenGenerator(image.QwenOptions{
			APIKey:  cfg.QwenAPIKey,
			BaseURL: cfg.QwenBaseURL,
			Model:   cfg.QwenModel,
			Logger:  &logger,
		})
	default:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("create gemini client")
		}
		generator = image.NewGeminiGenerator(client, image.GeminiOptions{
			Model:  cfg.GeminiModel,
			Logger: &logger,
		})
	}

	store := session.NewStore(cfg.SessionTTL)
	defer store.Close()

	app := &handlers.App{
		Config:    cfg,
		Logger:    logger,
		Sessions:  store,
		Generator: generator,
		Themes:    hero.ParseThemes(cfg.Themes),
		Stats:     handlers.NewStats(),
		Page:      &page.Templator{},
	}

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app))

	go func() {
		logger.Info().
			Str("env", cfg.AppEnv).
			Str("provider", cfg.ImageProvider).
			Msgf("studio listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
