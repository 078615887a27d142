package views

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every embedded page. Pages are addressed by file name,
// e.g. "products.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return "$" + d.StringFixed(2)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("Jan 2, 2006 15:04")
		},
		"sortLabel": func(key string) string {
			switch key {
			case "name_desc":
				return "Title Z-A"
			case "price_asc":
				return "Price: low to high"
			case "price_desc":
				return "Price: high to low"
			default:
				return "Title A-Z"
			}
		},
		"truncate": func(n int, s string) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return strings.TrimSpace(string(r[:n])) + "…"
		},
	}
}
