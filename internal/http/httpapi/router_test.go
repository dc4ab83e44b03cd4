package httpapi

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"heroshot/internal/hero"
	"heroshot/internal/http/handlers"
	"heroshot/internal/infra"
	"heroshot/internal/page"
	genimage "heroshot/internal/providers/image"
	"heroshot/internal/session"
)

func newTestRouter(t *testing.T, tweak func(*infra.Config)) http.Handler {
	t.Helper()
	cfg := &infra.Config{
		ImageProvider:   infra.ProviderSynthetic,
		MaxUploadBytes:  10 << 20,
		PreviewMaxPx:    128,
		RateLimitPerMin: 100,
	}
	if tweak != nil {
		tweak(cfg)
	}
	store := session.NewStore(time.Hour)
	t.Cleanup(store.Close)
	return NewRouter(&handlers.App{
		Config:    cfg,
		Logger:    zerolog.Nop(),
		Sessions:  store,
		Generator: &genimage.SyntheticGenerator{},
		Themes:    hero.ParseThemes(cfg.Themes),
		Stats:     handlers.NewStats(),
		Page:      &page.Templator{},
	})
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type sessionBody struct {
	Session struct {
		ID          string `json:"id"`
		HasImage    bool   `json:"has_image"`
		Theme       string `json:"theme"`
		Ready       bool   `json:"ready"`
		Generating  bool   `json:"generating"`
		ResultCount int    `json:"result_count"`
	} `json:"session"`
}

func portraitPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(16 * x), G: uint8(16 * y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="me.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()
	rr := do(t, router, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, want 201; body=%s", rr.Code, rr.Body.String())
	}
	var body sessionBody
	decodeJSON(t, rr, &body)
	if body.Session.ID == "" {
		t.Fatalf("session id missing: %s", rr.Body.String())
	}
	return body.Session.ID
}

// TestStudioFlow walks the whole happy path a visitor takes through the
// router: page, session, upload, preview, theme, generate, download, archive.
func TestStudioFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := do(t, router, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("page status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("page Content-Type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Superhero Studio") {
		t.Fatalf("page body missing title")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("X-Request-ID header missing")
	}

	rr = do(t, router, httptest.NewRequest(http.MethodGet, "/v1/themes", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Marvel") {
		t.Fatalf("themes = %d %s", rr.Code, rr.Body.String())
	}

	id := createSession(t, router)
	base := "/v1/sessions/" + id

	rr = do(t, router, httptest.NewRequest(http.MethodGet, base, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("state status = %d, want 200", rr.Code)
	}
	var state sessionBody
	decodeJSON(t, rr, &state)
	if state.Session.HasImage || state.Session.Ready {
		t.Fatalf("fresh session = %+v", state.Session)
	}

	rr = do(t, router, uploadRequest(t, base+"/image", portraitPNG(t)))
	if rr.Code != http.StatusOK {
		t.Fatalf("upload status = %d, want 200; body=%s", rr.Code, rr.Body.String())
	}
	decodeJSON(t, rr, &state)
	if !state.Session.HasImage || state.Session.Ready {
		t.Fatalf("after upload = %+v", state.Session)
	}

	rr = do(t, router, httptest.NewRequest(http.MethodGet, base+"/preview", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("preview status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("preview Content-Type = %q", ct)
	}
	if cfgImg, err := png.DecodeConfig(bytes.NewReader(rr.Body.Bytes())); err != nil {
		t.Fatalf("preview decode: %v", err)
	} else if cfgImg.Width > 128 || cfgImg.Height > 128 {
		t.Fatalf("preview %dx%d exceeds 128px", cfgImg.Width, cfgImg.Height)
	}

	req := httptest.NewRequest(http.MethodPut, base+"/theme", strings.NewReader(`{"theme":"Marvel"}`))
	req.Header.Set("Content-Type", "application/json")
	rr = do(t, router, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("theme status = %d, want 200; body=%s", rr.Code, rr.Body.String())
	}
	decodeJSON(t, rr, &state)
	if !state.Session.Ready || state.Session.Theme != "Marvel" {
		t.Fatalf("after theme = %+v", state.Session)
	}

	rr = do(t, router, httptest.NewRequest(http.MethodPost, base+"/generate", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("generate status = %d, want 200; body=%s", rr.Code, rr.Body.String())
	}
	var generated struct {
		Session struct {
			ResultCount int `json:"result_count"`
		} `json:"session"`
		Results []struct {
			Filename    string `json:"filename"`
			MIMEType    string `json:"mime_type"`
			DataURL     string `json:"data_url"`
			DownloadURL string `json:"download_url"`
		} `json:"results"`
	}
	decodeJSON(t, rr, &generated)
	if len(generated.Results) != 1 || generated.Session.ResultCount != 1 {
		t.Fatalf("generate body = %s", rr.Body.String())
	}
	res := generated.Results[0]
	if !regexp.MustCompile(`^superhero-marvel-\d+\.png$`).MatchString(res.Filename) {
		t.Fatalf("filename = %q", res.Filename)
	}
	if !strings.HasPrefix(res.DataURL, "data:image/png;base64,") {
		t.Fatalf("data_url = %q", res.DataURL)
	}

	rr = do(t, router, httptest.NewRequest(http.MethodGet, res.DownloadURL, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("download Content-Type = %q", ct)
	}
	if want := fmt.Sprintf("attachment; filename=%q", res.Filename); rr.Header().Get("Content-Disposition") != want {
		t.Fatalf("Content-Disposition = %q, want %q", rr.Header().Get("Content-Disposition"), want)
	}
	if rr.Body.Len() == 0 {
		t.Fatalf("download body empty")
	}

	rr = do(t, router, httptest.NewRequest(http.MethodGet, base+"/results.zip", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("archive status = %d, want 200", rr.Code)
	}
	archive := rr.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != res.Filename {
		t.Fatalf("archive entries = %+v", zr.File)
	}

	rr = do(t, router, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("stats status = %d, want 200", rr.Code)
	}
	var stats struct {
		Attempts  int64 `json:"generation_attempts"`
		Succeeded int64 `json:"generation_succeeded"`
		Images    int64 `json:"images_returned"`
		Sessions  int   `json:"live_sessions"`
	}
	decodeJSON(t, rr, &stats)
	if stats.Attempts != 1 || stats.Succeeded != 1 || stats.Images != 1 || stats.Sessions != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	rr = do(t, router, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "ok") {
		t.Fatalf("healthz = %d %s", rr.Code, rr.Body.String())
	}
}

func TestRouterUnknownSession(t *testing.T) {
	router := newTestRouter(t, nil)

	themeReq := httptest.NewRequest(http.MethodPut, "/v1/sessions/nope/theme", strings.NewReader(`{"theme":"DC"}`))
	themeReq.Header.Set("Content-Type", "application/json")

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/v1/sessions/nope", nil),
		themeReq,
		httptest.NewRequest(http.MethodPost, "/v1/sessions/nope/generate", nil),
		httptest.NewRequest(http.MethodGet, "/v1/sessions/nope/results/0", nil),
		httptest.NewRequest(http.MethodGet, "/v1/sessions/nope/results.zip", nil),
	} {
		rr := do(t, router, req)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s %s: status = %d, want 404", req.Method, req.URL.Path, rr.Code)
		}
	}
}

func TestRouterRateLimitsGenerate(t *testing.T) {
	router := newTestRouter(t, func(cfg *infra.Config) { cfg.RateLimitPerMin = 1 })
	id := createSession(t, router)

	first := do(t, router, httptest.NewRequest(http.MethodPost, "/v1/sessions/"+id+"/generate", nil))
	if first.Code != http.StatusUnprocessableEntity {
		t.Fatalf("first status = %d, want 422", first.Code)
	}

	second := do(t, router, httptest.NewRequest(http.MethodPost, "/v1/sessions/"+id+"/generate", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After header missing on 429")
	}

	// other routes stay unthrottled
	rr := do(t, router, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("state status = %d, want 200", rr.Code)
	}
}
