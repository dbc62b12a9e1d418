package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"bookstore/internal/auth"
	"bookstore/internal/shop"
	"bookstore/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var cardColors = []string{"#FAD2E1", "#C6DBDA", "#F6C4C8", "#D8BFD8", "#B7E0E9", "#E0BBE4", "#95C5B9", "#FFD8A8"}

var pageNames = []string{"index", "register", "login", "cart", "payment", "admin", "error"}

type pages struct {
	byName map[string]*template.Template
}

// pageData is the view model handed to every template. Page-specific fields are
// left zero where they do not apply.
type pageData struct {
	Title      string
	User       *auth.Principal
	Flash      string
	Storefront *shop.Storefront
	Cart       *shop.Cart
	Books      []models.Book
	Message    string
}

func parsePages() (*pages, error) {
	funcs := template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"cardColor": func(i int) string {
			return cardColors[i%len(cardColors)]
		},
	}
	p := &pages{byName: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		p.byName[name] = t
	}
	return p, nil
}

// render executes page name into a buffer first so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	t, ok := s.pages.byName[name]
	if !ok {
		s.log.ErrorContext(r.Context(), "unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if data.User == nil {
		data.User, _ = auth.FromContext(r.Context())
	}
	if data.Flash == "" {
		data.Flash = popFlash(w, r)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.log.ErrorContext(r.Context(), "render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
