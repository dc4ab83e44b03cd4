package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (a *App) ThemeList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.Themes})
}

// ThemeSelect stores the visitor's universe choice. Any non-empty value is
// accepted so the catalog can change without invalidating open pages.
func (a *App) ThemeSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	theme := strings.TrimSpace(body.Theme)
	if theme == "" {
		a.error(w, http.StatusUnprocessableEntity, "invalid_theme", "theme must not be empty")
		return
	}

	view, err := a.Sessions.PutTheme(id, theme)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"session": view})
}
