package models

import (
	"encoding/json"
	"time"
)

// Article represents a content item served by the CMS.
type Article struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Content      string        `json:"content,omitempty"` // HTML body
	PublishedAt  time.Time     `json:"published_at"`
	RenewedAt    time.Time     `json:"renewed_at,omitempty"` // zero when never renewed
	Category     CategoryField `json:"category"`
	ProblemTags  TagList       `json:"problem_tags"`
	SolutionTags TagList       `json:"solution_tags"`
	Thumbnail    Image         `json:"thumbnail"`
	Pickup       bool          `json:"pickup"`
}

// Image is a media reference.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Category is an explicit article category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryKind tells which shape the category field arrived in.
type CategoryKind int

// Category shapes.
const (
	CategoryNone CategoryKind = iota
	CategorySingle
	CategoryList
)

// CategoryField is the explicit category of an article: absent, a single
// record or a list of records.
type CategoryField struct {
	Kind  CategoryKind
	Items []Category
}

// Resolve collapses the field into one category. ok is false when the
// article has no explicit category. A present but empty list resolves to a
// zero Category.
func (f CategoryField) Resolve() (cat Category, ok bool) {
	if f.Kind == CategoryNone {
		return Category{}, false
	}
	if len(f.Items) == 0 {
		return Category{}, true
	}
	return f.Items[0], true
}

// UnmarshalJSON accepts null, an object or an array of objects. Anything
// else leaves the field empty instead of failing the whole article.
func (f *CategoryField) UnmarshalJSON(b []byte) error {
	*f = CategoryField{}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case map[string]any:
		f.Kind = CategorySingle
		f.Items = []Category{categoryFromMap(v)}
	case []any:
		f.Kind = CategoryList
		f.Items = make([]Category, 0, len(v))
		for _, item := range v {
			m, _ := item.(map[string]any)
			f.Items = append(f.Items, categoryFromMap(m))
		}
	}
	return nil
}

// MarshalJSON writes the field back in the shape it was read.
func (f CategoryField) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case CategorySingle:
		if len(f.Items) > 0 {
			return json.Marshal(f.Items[0])
		}
		return []byte("{}"), nil
	case CategoryList:
		if f.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(f.Items)
	default:
		return []byte("null"), nil
	}
}

func categoryFromMap(m map[string]any) Category {
	id, _ := m["id"].(string)
	name, _ := m["name"].(string)
	return Category{ID: id, Name: name}
}

// TagList holds raw tag references of an article. Each element is either a
// plain string or a decoded JSON object.
type TagList []any

// UnmarshalJSON accepts null, a single reference or an array of references.
func (l *TagList) UnmarshalJSON(b []byte) error {
	*l = nil

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case nil:
	case []any:
		*l = v
	default:
		*l = TagList{v}
	}
	return nil
}
