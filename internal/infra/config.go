package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted by IMAGE_PROVIDER.
const (
	ProviderGemini    = "gemini"
	ProviderQwen      = "qwen"
	ProviderSynthetic = "synthetic"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	ImageProvider string
	GeminiAPIKey  string
	GeminiModel   string
	QwenAPIKey    string
	QwenBaseURL   string
	QwenModel     string

	Themes          string
	MaxUploadBytes  int64
	PreviewMaxPx    int
	SessionTTL      time.Duration
	GenerateTimeout time.Duration

	AllowedOrigins   []string
	RateLimitPerMin  int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		ImageProvider:    strings.ToLower(getEnv("IMAGE_PROVIDER", ProviderGemini)),
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash-image-preview"),
		QwenAPIKey:       strings.TrimSpace(os.Getenv("QWEN_API_KEY")),
		QwenBaseURL:      strings.TrimSpace(os.Getenv("QWEN_BASE_URL")),
		QwenModel:        getEnv("QWEN_MODEL", "qwen-image-edit"),
		Themes:           getEnv("THEMES", "Marvel,DC"),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,
		PreviewMaxPx:     getEnvInt("PREVIEW_MAX_PX", 512),
		SessionTTL:       time.Minute * time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)),
		GenerateTimeout:  time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 90)),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS"),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	switch cfg.ImageProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
	case ProviderQwen:
		if cfg.QwenAPIKey == "" {
			return nil, fmt.Errorf("QWEN_API_KEY is required")
		}
	case ProviderSynthetic:
	default:
		return nil, fmt.Errorf("unsupported IMAGE_PROVIDER %q", cfg.ImageProvider)
	}

	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}

	// the write timeout bounds the whole synchronous generation round trip
	if cfg.HTTPWriteTimeout <= cfg.GenerateTimeout {
		cfg.HTTPWriteTimeout = cfg.GenerateTimeout + 30*time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
