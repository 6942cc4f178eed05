package models

import "html/template"

// Page is a static informational page such as the privacy policy.
type Page struct {
	Slug        string
	Title       string
	TitleEn     string
	Description string
	Body        template.HTML
}
