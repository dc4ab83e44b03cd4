package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) SessionCreate(w http.ResponseWriter, r *http.Request) {
	v := a.Sessions.Create()
	a.Logger.Debug().Str("session_id", v.ID).Msg("session created")
	a.json(w, http.StatusCreated, map[string]any{"session": v})
}

func (a *App) SessionState(w http.ResponseWriter, r *http.Request) {
	v, err := a.Sessions.View(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"session": v})
}
