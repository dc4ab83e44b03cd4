package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"heroshot/internal/http/handlers"
	"heroshot/internal/middleware"
)

// NewRouter wires the studio page and the JSON API.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
	)

	r.Get("/", app.Index)
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	r.Get("/v1/themes", app.ThemeList)
	r.Get("/v1/stats", app.StatsSummary)

	limiter := middleware.NewRateLimiter(app.Config.RateLimitPerMin, time.Minute)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.SessionCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.SessionState)
			r.Post("/image", app.ImageUpload)
			r.Get("/preview", app.ImagePreview)
			r.Put("/theme", app.ThemeSelect)
			r.With(limiter.Middleware).Post("/generate", app.Generate)
			r.Get("/results/{index}", app.ResultDownload)
			r.Get("/results.zip", app.ResultsArchive)
		})
	})

	return r
}
