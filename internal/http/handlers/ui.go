package handlers

import (
	"net/http"

	"heroshot/internal/page"
)

// Index serves the studio page.
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err := a.Page.Render(w, page.Params{
		Themes:      a.Themes,
		MaxUploadMB: a.Config.MaxUploadBytes >> 20,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("render studio page")
	}
}
