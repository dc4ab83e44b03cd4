package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"heroshot/internal/domain"
	"heroshot/internal/hero"
	"heroshot/internal/infra"
	"heroshot/internal/page"
	"heroshot/internal/session"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store := session.NewStore(time.Hour)
	t.Cleanup(store.Close)
	return &App{
		Config: &infra.Config{
			ImageProvider:  infra.ProviderSynthetic,
			MaxUploadBytes: 10 << 20,
			PreviewMaxPx:   128,
		},
		Logger:   zerolog.Nop(),
		Sessions: store,
		Themes:   hero.ParseThemes(""),
		Stats:    NewStats(),
		Page:     &page.Templator{},
	}
}

// withURLParams injects chi route parameters for handlers called directly.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// multipartBody builds a single-file form with an explicit part content type.
func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// readySession seeds a session that can generate.
func readySession(t *testing.T, app *App) string {
	t.Helper()
	v := app.Sessions.Create()
	img := domain.UploadedImage{
		Base64:   base64.StdEncoding.EncodeToString(pngBytes(t, 8, 8)),
		MIMEType: "image/png",
	}
	if _, err := app.Sessions.PutImage(v.ID, img); err != nil {
		t.Fatalf("PutImage returned error: %v", err)
	}
	if _, err := app.Sessions.PutTheme(v.ID, "DC"); err != nil {
		t.Fatalf("PutTheme returned error: %v", err)
	}
	return v.ID
}

type sessionEnvelope struct {
	Session domain.StudioView `json:"session"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
