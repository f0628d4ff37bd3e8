package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templates embed.FS

// New builds the view engine over the embedded templates. imageURL resolves stored image names.
func New(imageURL func(name string) string) *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(Funcs(imageURL))
	return engine
}

// Funcs are the helpers available to every template
func Funcs(imageURL func(name string) string) template.FuncMap {
	return template.FuncMap{
		"imageURL":   imageURL,
		"truncate":   Truncate,
		"formatDate": FormatDate,
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
	}
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// FormatDate renders a timestamp as "Jan 2, 2006"
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
