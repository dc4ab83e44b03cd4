package handlers

import (
	"encoding/json"
	"net/http"

	"heroshot/internal/hero"
	"heroshot/internal/infra"
	"heroshot/internal/page"
	"heroshot/internal/providers/image"
	"heroshot/internal/session"
)

// App carries the wired dependencies handlers need.
type App struct {
	Config    *infra.Config
	Logger    infra.Logger
	Sessions  *session.Store
	Generator image.Generator
	Themes    []hero.Theme
	Stats     *Stats
	Page      *page.Templator
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": slug, "message": message},
	})
}
