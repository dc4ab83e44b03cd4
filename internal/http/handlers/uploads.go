package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"heroshot/internal/domain"
	"heroshot/internal/preview"
)

// ImageUpload accepts a multipart portrait upload and stores it on the
// session. Anything that is not an image is rejected and the session keeps
// whatever it held before.
func (a *App) ImageUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := a.Sessions.View(id); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.Config.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", "image exceeds the upload limit")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusUnprocessableEntity, "invalid_file", "image field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to read upload")
		return
	}
	if len(data) == 0 {
		a.error(w, http.StatusUnprocessableEntity, "invalid_file", "uploaded file is empty")
		return
	}

	mimeType := imageMIME(header.Header.Get("Content-Type"), data)
	if mimeType == "" {
		a.error(w, http.StatusUnprocessableEntity, "invalid_file", "only image uploads are accepted")
		return
	}

	view, err := a.Sessions.PutImage(id, domain.UploadedImage{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
	})
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}

	a.Logger.Debug().
		Str("session_id", id).
		Str("mime", mimeType).
		Int("bytes", len(data)).
		Msg("portrait uploaded")
	a.json(w, http.StatusOK, map[string]any{"session": view})
}

// imageMIME decides the MIME type to store for an upload. The declared type
// wins when it names an image; a missing or generic declaration falls back to
// sniffing the bytes. An empty return means the payload is not an image.
func imageMIME(declared string, data []byte) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	if declared == "" || declared == "application/octet-stream" {
		if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
			return sniffed
		}
	}
	return ""
}

// ImagePreview serves a downscaled copy of the uploaded portrait. Formats the
// previewer cannot decode are served as uploaded.
func (a *App) ImagePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	img, err := a.Sessions.Image(id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "no image uploaded")
		return
	}

	data, err := img.Bytes()
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "stored image is corrupted")
		return
	}

	body, mimeType := data, img.MIMEType
	if thumb, err := preview.Thumbnail(data, a.Config.PreviewMaxPx); err == nil {
		body, mimeType = thumb, "image/png"
	} else {
		a.Logger.Debug().Err(err).Str("session_id", id).Msg("preview falls back to original bytes")
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
