package page

import (
	_ "embed"
	"html/template"
	"io"
	"sync"

	"heroshot/internal/hero"
)

//go:embed assets/studio.html
var studioHTML string

// Params feeds the studio page template.
type Params struct {
	Themes      []hero.Theme
	MaxUploadMB int64
}

// Templator lazily parses the embedded studio page and renders it.
type Templator struct {
	once sync.Once
	tmpl *template.Template
	err  error
}

func (t *Templator) Render(w io.Writer, p Params) error {
	t.once.Do(func() {
		t.tmpl, t.err = template.New("studio").Parse(studioHTML)
	})
	if t.err != nil {
		return t.err
	}
	return t.tmpl.Execute(w, p)
}
