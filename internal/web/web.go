// Package web embeds the HTML templates and static assets of the site.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Template names.
const (
	IndexTemplate = "index.html"
	AdminTemplate = "admin.html"
)

// Funcs are the helpers available inside templates.
var Funcs = template.FuncMap{
	"stars": func(n int) []bool {
		out := make([]bool, 5)
		for i := range out {
			out[i] = i < n
		}
		return out
	},
	"date": func(t time.Time) string {
		return t.Format("02.01.2006")
	},
	"initial": func(s string) string {
		for _, r := range strings.TrimSpace(s) {
			return strings.ToUpper(string(r))
		}
		return ""
	},
	"year": func() int { return time.Now().Year() },
}

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is like Templates but panics on a parse error.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static returns the asset tree served under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
