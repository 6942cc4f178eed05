package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"melonworks-site/pkg/models"
)

// ParseFrontMatter splits content into its front matter and body. YAML (---),
// TOML (+++) and a leading JSON object are recognised.
func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	str := strings.ReplaceAll(string(content), "\r\n", "\n")
	// Check for YAML (---)
	if strings.HasPrefix(str, "---\n") {
		parts := strings.SplitN(str, "---", 3) // "", FM, Body
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := yaml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return fm, strings.TrimSpace(parts[2]), "yaml", nil
			}
		}
	}
	// Check for TOML (+++)
	if strings.HasPrefix(str, "+++\n") {
		parts := strings.SplitN(str, "+++", 3)
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := toml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return fm, strings.TrimSpace(parts[2]), "toml", nil
			}
		}
	}
	// Check for JSON ({), the body follows the closing brace
	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		dec := json.NewDecoder(strings.NewReader(str))
		var fm map[string]interface{}
		if err := dec.Decode(&fm); err == nil {
			rest := str[dec.InputOffset():]
			return fm, strings.TrimSpace(rest), "json", nil
		}
	}

	return nil, "", "", fmt.Errorf("unknown format")
}

// Pages renders the static markdown pages.
type Pages struct {
	fsys fs.FS
	md   goldmark.Markdown
}

// NewPages serves pages stored as <slug>.md in fsys.
func NewPages(fsys fs.FS) *Pages {
	return &Pages{
		fsys: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Page reads and renders the page named slug.
func (p *Pages) Page(slug string) (models.Page, error) {
	name := SafeName(slug)
	if name == "" {
		return models.Page{}, fmt.Errorf("page %q: %w", slug, ErrNotFound)
	}

	content, err := fs.ReadFile(p.fsys, name+".md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Page{}, fmt.Errorf("page %q: %w", slug, ErrNotFound)
		}
		return models.Page{}, fmt.Errorf("read page %q: %w", slug, err)
	}

	fm, body, _, err := ParseFrontMatter(content)
	if err != nil {
		// no front matter, the whole file is the body
		fm, body = nil, string(content)
	}

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(body), &buf); err != nil {
		return models.Page{}, fmt.Errorf("render page %q: %w", slug, err)
	}

	return models.Page{
		Slug:        name,
		Title:       stringField(fm, "title"),
		TitleEn:     stringField(fm, "title_en"),
		Description: stringField(fm, "description"),
		Body:        template.HTML(buf.String()), //nolint:gosec // rendered from embedded markdown
	}, nil
}

// SafeName cleans a page name, returning "" for anything that would leave the
// pages directory.
func SafeName(name string) string {
	clean := path.Clean("/" + name)[1:]
	if clean == "" || clean != name || strings.Contains(clean, "/") || strings.Contains(clean, "..") {
		return ""
	}
	return clean
}

func stringField(fm map[string]interface{}, key string) string {
	if v, ok := fm[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}
