// Package web holds the embedded templates, static assets and markdown pages
// of the site.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strings"
)

//go:embed templates static pages
var files embed.FS

// Templates parses the page templates. Every page is a template named after
// its file, the layout parts live in partials.html.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"searchTag": func(tag string) string { return "/search?tag=" + url.QueryEscape(tag) },
		"active":    func(path, prefix string) bool { return path == prefix || strings.HasPrefix(path, prefix+"/") },
		"dict":      dict,
	}).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Static returns the assets served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err) // embedded directory always exists
	}
	return sub
}

// Pages returns the markdown pages.
func Pages() fs.FS {
	sub, err := fs.Sub(files, "pages")
	if err != nil {
		panic(err)
	}
	return sub
}

// dict builds a map from key value pairs, for passing several values to a
// nested template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
