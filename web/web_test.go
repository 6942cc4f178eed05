package web

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"index.html", "page.html", "articles.html", "article.html", "search.html",
		"services.html", "service.html", "contact.html", "contact_done.html", "policy.html",
		"login.html", "base.html", "404.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "404.html", map[string]any{
		"Title":   "ページが見つかりません",
		"Company": map[string]string{"Name": "メロンワークス合同会社", "NameEn": "Melon Works LLC"},
		"Path":    "/nope",
		"Year":    2024,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<title>ページが見つかりません | メロンワークス合同会社</title>")
	assert.Contains(t, buf.String(), "&copy; 2024 Melon Works LLC")
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "x")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, m)

	_, err = dict("a")
	assert.Error(t, err)
	_, err = dict(1, 2)
	assert.Error(t, err)
}

func TestEmbeddedFiles(t *testing.T) {
	for _, name := range []string{"about.md", "privacy.md", "terms.md", "antisocial.md"} {
		_, err := fs.Stat(Pages(), name)
		assert.NoError(t, err, name)
	}
	_, err := fs.Stat(Static(), "site.css")
	assert.NoError(t, err)
}
