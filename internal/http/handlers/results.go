package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"heroshot/internal/domain"
	"heroshot/pkg/zip"
)

// ResultDownload streams one generated image with its derived filename.
func (a *App) ResultDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "result not found")
		return
	}

	res, err := a.Sessions.Result(id, index)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "result not found")
		return
	}

	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

// ResultsArchive bundles the latest results into one zip download.
func (a *App) ResultsArchive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	results, err := a.Sessions.Results(id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	if len(results) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no results to archive")
		return
	}

	archive := zip.Archive(lo.Map(results, func(res domain.Result, _ int) zip.Entry {
		return zip.Entry{Filename: res.Filename, Data: res.Data}
	}))

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="superhero-results.zip"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
