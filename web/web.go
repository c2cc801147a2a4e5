// Package web embeds the HTML templates rendered by the server.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded template set. Pages are named after their
// file, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
