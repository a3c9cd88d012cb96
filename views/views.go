// Package views holds the embedded page templates and static assets.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"unicode/utf8"
)

//go:embed templates/*.html static/*
var files embed.FS

// Template names rendered by the handlers
const (
	Index       = "index.html"
	Saved       = "saved.html"
	Placeholder = "placeholder.html"
)

const summaryLimit = 280

var funcMap = template.FuncMap{
	"shorten": shorten,
}

// shorten cuts s to summaryLimit characters, never inside a rune
func shorten(s string) string {
	if utf8.RuneCountInString(s) <= summaryLimit {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:summaryLimit])) + "..."
}

// Templates parses every page template, including the shared layout blocks.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(files, "templates/*.html")
}

// Static serves the embedded CSS and JavaScript.
func Static() (http.FileSystem, error) {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
