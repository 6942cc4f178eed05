package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Heading is an entry of an article's table of contents.
type Heading struct {
	ID    string
	Text  string
	Level int
}

const excerptRunes = 120

// inspectBody extracts a plain text excerpt and the h2/h3 headings of an
// article body. Headings without an id get one, so the returned html may
// differ from the input.
func inspectBody(body string) (html, excerpt string, toc []Heading, err error) {
	if strings.TrimSpace(body) == "" {
		return body, "", nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body, "", nil, fmt.Errorf("parse article body: %w", err)
	}

	excerpt = strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if utf8.RuneCountInString(excerpt) > excerptRunes {
		excerpt = string([]rune(excerpt)[:excerptRunes]) + "…"
	}

	doc.Find("h2, h3").Each(func(i int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok || id == "" {
			id = fmt.Sprintf("section-%d", i+1)
			s.SetAttr("id", id)
		}
		level := 2
		if goquery.NodeName(s) == "h3" {
			level = 3
		}
		toc = append(toc, Heading{ID: id, Text: strings.TrimSpace(s.Text()), Level: level})
	})

	if html, err = doc.Find("body").Html(); err != nil {
		return body, excerpt, toc, fmt.Errorf("render article body: %w", err)
	}
	return html, excerpt, toc, nil
}
