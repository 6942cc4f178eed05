package cms

import (
	"encoding/json"
	"time"

	"melonworks-site/pkg/models"
	"melonworks-site/pkg/taxonomy"
)

// listResponse is the envelope of every list endpoint.
type listResponse[T any] struct {
	Contents   []T `json:"contents"`
	TotalCount int `json:"totalCount"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
}

// articleDTO carries every field name the CMS schema has used over time.
type articleDTO struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Content      string               `json:"content"`
	Category     models.CategoryField `json:"category"`
	ProblemTags  models.TagList       `json:"problem_tags"`
	SolutionTags models.TagList       `json:"solution_tags"`
	Pickup       bool                 `json:"pickup"`

	PublishedAtField string `json:"published_at"`
	PublishedAt      string `json:"publishedAt"`
	CreatedAt        string `json:"createdAt"`
	RenewedAtField   string `json:"renewed_at"`
	UpdatedAt        string `json:"updatedAt"`

	Thumnail  json.RawMessage `json:"thumnail"`
	Thumbnail json.RawMessage `json:"thumbnail"`
	Image     json.RawMessage `json:"image"`
	Eyecatch  json.RawMessage `json:"eyecatch"`
}

func (d articleDTO) model() models.Article {
	published := taxonomy.First(
		parseTime(d.PublishedAtField),
		parseTime(d.PublishedAt),
		parseTime(d.CreatedAt),
	)
	renewed := taxonomy.First(
		parseTime(d.RenewedAtField),
		parseTime(d.UpdatedAt),
	)

	return models.Article{
		ID:           d.ID,
		Title:        d.Title,
		Content:      d.Content,
		PublishedAt:  published,
		RenewedAt:    renewed,
		Category:     d.Category,
		ProblemTags:  d.ProblemTags,
		SolutionTags: d.SolutionTags,
		Pickup:       d.Pickup,
		Thumbnail: taxonomy.First(
			image(d.Thumnail),
			image(d.Thumbnail),
			image(d.Image),
			image(d.Eyecatch),
		),
	}
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// parseTime returns an accessor yielding the parsed value, zero when the
// string is empty or malformed.
func parseTime(s string) func() time.Time {
	return func() time.Time {
		if s == "" {
			return time.Time{}
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}
}

// image returns an accessor decoding a media field that is either an object
// with a url or a bare url string. Anything without a url yields zero.
func image(raw json.RawMessage) func() models.Image {
	return func() models.Image {
		if len(raw) == 0 {
			return models.Image{}
		}

		var u string
		if err := json.Unmarshal(raw, &u); err == nil {
			return models.Image{URL: u}
		}

		var img models.Image
		if err := json.Unmarshal(raw, &img); err != nil || img.URL == "" {
			return models.Image{}
		}
		return img
	}
}
