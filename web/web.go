// Package web holds the admin console templates, compiled into the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templates embed.FS

// Engine returns a view engine over the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("money", func(d decimal.Decimal) string { return d.StringFixed(2) })
	return engine
}
