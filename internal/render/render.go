package render

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/microcosm-cc/bluemonday"

	"lite_pages/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer turns a LitePage into HTML documents. It holds no per-request state.
type Renderer struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
}

func New() (*Renderer, error) {
	t, err := template.New("lite").Funcs(template.FuncMap{
		"last": func(i, n int) bool { return i == n-1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Renderer{tmpl: t, policy: bluemonday.UGCPolicy()}, nil
}

// Static serves the CSS and JS the documents reference under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded directory always exists
	}
	return http.FileServer(http.FS(sub))
}

func (r *Renderer) Page(p domain.LitePage, o Options) ([]byte, error) {
	return r.exec("page", r.view(p, o))
}

func (r *Renderer) Card(p domain.LitePage, o Options) ([]byte, error) {
	return r.exec("card", r.view(p, o))
}

func (r *Renderer) Print(p domain.LitePage, o Options) ([]byte, error) {
	return r.exec("print", r.view(p, o))
}

type errorView struct {
	Status  int
	Heading string
	Message string
}

// NotFound is the page served for unknown or inactive slugs.
func (r *Renderer) NotFound() []byte {
	return r.errorPage(http.StatusNotFound, "Page not found", "This property page does not exist or is no longer published.")
}

// ServerError is the generic failure page; it never carries error details.
func (r *Renderer) ServerError() []byte {
	return r.errorPage(http.StatusInternalServerError, "Something went wrong", "We could not load this page. Please try again in a moment.")
}

func (r *Renderer) errorPage(status int, heading, msg string) []byte {
	b, err := r.exec("error", errorView{Status: status, Heading: heading, Message: msg})
	if err != nil {
		return []byte(heading)
	}
	return b
}

func (r *Renderer) exec(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "render %s", name), domain.ErrRender)
	}
	return buf.Bytes(), nil
}
