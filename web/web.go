// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"zephyrs-web/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages that can be rendered. Each is layout.html plus templates/<name>.html.
var Pages = []string{"home", "plans", "amenities", "staff", "contact", "pickleball"}

// NavItem is one entry of the top navigation.
type NavItem struct {
	Label string
	Path  string
}

var Nav = []NavItem{
	{Label: "Home", Path: "/"},
	{Label: "Plans & Rates", Path: "/plans-and-rates"},
	{Label: "Amenities", Path: "/amenities"},
	{Label: "Staff", Path: "/staff"},
	{Label: "Pickleball", Path: "/pickleball"},
	{Label: "Contact", Path: "/contact"},
}

// Page is the data every template receives.
type Page struct {
	Title     string
	Path      string
	CSRFToken string
	Contact   domain.ContactInfo
	Data      interface{}
}

func (p Page) Nav() []NavItem { return Nav }
func (p Page) Year() int      { return time.Now().Year() }

var funcs = template.FuncMap{
	"join": strings.Join,
	"maxlen": func(field string) int {
		return domain.Field(field).MaxLength()
	},
}

// Renderer executes parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page against the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(Pages))}
	for _, name := range Pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// View returns a function that renders the named page.
func (r *Renderer) View(name string, page Page) func(io.Writer) error {
	return func(w io.Writer) error {
		t, ok := r.pages[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout.html", page)
	}
}

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
