package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melonworks-site/pkg/cms"
	"melonworks-site/pkg/models"
	"melonworks-site/pkg/taxonomy"
)

var testServices = []models.Service{
	{ID: "dx", Title: "業務設計・DX支援", Path: "/service/dx", ProblemTerms: []string{"アナログ管理"}, SolutionTerms: []string{"DX"}},
	{ID: "web", Title: "Webサイト制作", Path: "/service/web"},
	{ID: "ec", Title: "ECサイト構築・運用", Path: "/service/ec",
		ProblemTerms: []string{"在庫が合わない"}, SolutionTerms: []string{"ECサイト構築", "POSレジ"}},
	{ID: "design", Title: "デザイン制作", Path: "/service/design"},
}

var testTags = []models.Tag{
	{Name: "在庫が合わない", Type: models.StringList{"problem"}, RelatedServices: models.StringList{"ec"}},
	{Name: "ECサイト構築", Type: models.StringList{"solution"}, RelatedServices: models.StringList{"ec", "web"}},
	{Name: "アナログ管理", Type: models.StringList{"problem"}, RelatedServices: models.StringList{"dx"}},
}

func newTestContent(src ContentSource, m *Metrics) *Content {
	return NewContent(ContentParams{
		Source:           src,
		Resolver:         taxonomy.NewResolver(testServices, "お知らせ"),
		PlaceholderImage: "/static/noimage.png",
		Metrics:          m,
	})
}

func TestContent_Home(t *testing.T) {
	src := &fakeSource{
		articles: []models.Article{{ID: "a1", Title: "在庫の話", ProblemTags: models.TagList{"在庫が合わない"}}},
		tags:     testTags,
	}
	c := newTestContent(src, nil)

	v := c.Home(context.Background())
	require.Len(t, v.Latest, 1)
	assert.Equal(t, "ECサイト構築・運用", v.Latest[0].Category)
	assert.Equal(t, "/article/a1", v.Latest[0].URL)
	assert.Equal(t, "/static/noimage.png", v.Latest[0].Thumbnail)
	assert.Len(t, v.Pickup, 1)
	assert.Len(t, v.Services, 4)

	queries := src.recorded()
	require.Len(t, queries, 2)
	var filters []cms.Filter
	for _, q := range queries {
		assert.Equal(t, cms.OrderNewest, q.Orders)
		filters = append(filters, q.Filters)
	}
	assert.ElementsMatch(t, []cms.Filter{"", "pickup[equals]true"}, filters)
}

func TestContent_FetchFailureDegrades(t *testing.T) {
	src := &fakeSource{
		articles: []models.Article{{ID: "a1", Title: "在庫の話", ProblemTags: models.TagList{"在庫が合わない"}}},
		tagsErr:  errors.New("cms is down"),
	}
	m := NewMetrics(prometheus.NewRegistry())
	c := newTestContent(src, m)

	cards := c.ArticleList(context.Background())
	require.Len(t, cards, 1, "articles survive a failed tag fetch")
	assert.Equal(t, "お知らせ", cards[0].Category, "no tags, default label")
	assert.InDelta(t, 1, testutil.ToFloat64(m.fetchFailures.WithLabelValues("tags")), 0)

	src = &fakeSource{listErr: errors.New("timeout"), tags: testTags}
	c = newTestContent(src, nil)
	assert.Empty(t, c.ArticleList(context.Background()))
}

func TestContent_Article(t *testing.T) {
	published := time.Date(2024, 4, 30, 16, 0, 0, 0, time.UTC) // 2024-05-01 in JST
	src := &fakeSource{
		byID: map[string]models.Article{"a1": {
			ID:           "a1",
			Title:        "在庫管理の見直し",
			Content:      "<p>はじめに</p><h2>課題</h2><p>本文</p><h3 id=\"detail\">詳細</h3>",
			PublishedAt:  published,
			RenewedAt:    published.Add(2 * time.Hour),
			ProblemTags:  models.TagList{"在庫が合わない", ""},
			SolutionTags: models.TagList{map[string]any{"name": "ECサイト構築"}},
			Thumbnail:    models.Image{URL: "https://images.example/a1.png"},
		}},
		articles: []models.Article{{ID: "a2", Title: "other"}},
		tags:     testTags,
	}
	c := newTestContent(src, nil)

	v, err := c.Article(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, "ECサイト構築・運用", v.Category)
	assert.Equal(t, "/service/ec", v.CategoryURL)
	assert.Equal(t, "2024.05.01", v.Date)
	assert.False(t, v.Renewed, "renewed the same day")
	assert.Equal(t, "https://images.example/a1.png", v.Thumbnail)
	assert.Equal(t, []string{"在庫が合わない"}, v.ProblemTags)
	assert.Equal(t, []string{"ECサイト構築"}, v.SolutionTags)
	assert.Equal(t, []string{"在庫が合わない", "アナログ管理"}, v.SideProblems)
	assert.Equal(t, []string{"ECサイト構築"}, v.SideSolutions)
	require.Len(t, v.Latest, 1)

	assert.Equal(t, []Heading{{ID: "section-1", Text: "課題", Level: 2}, {ID: "detail", Text: "詳細", Level: 3}}, v.TOC)
	assert.Contains(t, string(v.Body), `<h2 id="section-1">課題</h2>`)
	assert.Equal(t, "はじめに課題本文詳細", v.Excerpt)
}

func TestContent_ArticleNotFound(t *testing.T) {
	c := newTestContent(&fakeSource{tags: testTags}, nil)
	_, err := c.Article(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	c = newTestContent(&fakeSource{getErr: errors.New("bad status code: 500")}, nil)
	_, err = c.Article(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrNotFound, "any failure to get the article is a not found")
}

func TestContent_ArticleExplicitCategory(t *testing.T) {
	src := &fakeSource{
		byID: map[string]models.Article{"a1": {
			ID:          "a1",
			Category:    models.CategoryField{Kind: models.CategorySingle, Items: []models.Category{{ID: "news", Name: "Announcements"}}},
			ProblemTags: models.TagList{"アナログ管理"},
		}},
		tags: testTags,
	}
	v, err := newTestContent(src, nil).Article(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Announcements", v.Category)
	assert.Equal(t, "/articles", v.CategoryURL)
}

func TestContent_Search(t *testing.T) {
	t.Run("by tag", func(t *testing.T) {
		src := &fakeSource{tags: testTags}
		v := newTestContent(src, nil).Search(context.Background(), SearchQuery{Tag: "ECサイト構築", CategoryID: "news"})

		assert.Equal(t, "#ECサイト構築", v.Title)
		assert.Empty(t, v.Query.CategoryID, "tag wins over category")
		require.Len(t, src.recorded(), 1)
		assert.Equal(t, "ECサイト構築", src.recorded()[0].Q)
		assert.Empty(t, src.recorded()[0].Filters)

		titles := []string{}
		for _, s := range v.Services {
			titles = append(titles, s.Title)
		}
		assert.Equal(t, []string{"Webサイト制作", "ECサイト構築・運用"}, titles, "service table order")
	})

	t.Run("by tag without tag record", func(t *testing.T) {
		v := newTestContent(&fakeSource{tags: testTags}, nil).Search(context.Background(), SearchQuery{Tag: "デザイン"})
		require.Len(t, v.Services, 1)
		assert.Equal(t, "デザイン制作", v.Services[0].Title)
	})

	t.Run("by category", func(t *testing.T) {
		src := &fakeSource{tags: testTags}
		v := newTestContent(src, nil).Search(context.Background(), SearchQuery{CategoryID: "news", CategoryName: "お知らせ"})
		assert.Equal(t, "お知らせ", v.Title)
		assert.Nil(t, v.Services)
		assert.Equal(t, cms.Filter("category[equals]news"), src.recorded()[0].Filters)
		assert.Empty(t, src.recorded()[0].Q)
	})

	t.Run("by category without name", func(t *testing.T) {
		src := &fakeSource{tags: testTags}
		v := newTestContent(src, nil).Search(context.Background(), SearchQuery{CategoryID: "news"})
		assert.Equal(t, "記事一覧", v.Title)
		assert.Equal(t, cms.Filter("category[equals]news"), src.recorded()[0].Filters)
	})

	t.Run("everything", func(t *testing.T) {
		src := &fakeSource{}
		v := newTestContent(src, nil).Search(context.Background(), SearchQuery{})
		assert.Equal(t, "記事一覧", v.Title)
		assert.Equal(t, cms.ArticleQuery{Limit: 100, Orders: cms.OrderNewest}, src.recorded()[0])
	})
}

func TestContent_Service(t *testing.T) {
	src := &fakeSource{tags: testTags}
	c := newTestContent(src, nil)

	v, err := c.Service(context.Background(), "ec")
	require.NoError(t, err)
	assert.Equal(t, "ECサイト構築・運用", v.Service.Title)
	assert.Equal(t, []string{"在庫が合わない"}, v.ProblemTags)
	assert.Equal(t, []string{"ECサイト構築"}, v.SolutionTags)

	require.Len(t, src.recorded(), 1)
	q := src.recorded()[0]
	assert.Equal(t, 3, q.Limit)
	assert.Equal(t, cms.Filter("solution_tags[contains]ECサイト構築[or]solution_tags[contains]POSレジ[or]problem_tags[contains]在庫が合わない"), q.Filters)

	// no terms, no article query
	src = &fakeSource{tags: testTags}
	_, err = newTestContent(src, nil).Service(context.Background(), "web")
	require.NoError(t, err)
	assert.Empty(t, src.recorded())

	_, err = c.Service(context.Background(), "seo")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContent_Tags(t *testing.T) {
	c := newTestContent(&fakeSource{tags: testTags}, nil)
	assert.Equal(t, []string{"在庫が合わない", "アナログ管理"}, c.Tags(context.Background(), taxonomy.Filter{Type: "problem"}))
	assert.Equal(t, []string{"ECサイト構築"}, c.Tags(context.Background(), taxonomy.Filter{ServiceID: "web"}))
}

func TestDisplayDate(t *testing.T) {
	pub := time.Date(2024, 1, 10, 0, 0, 0, 0, JST)

	d, renewed := displayDate(pub, time.Time{})
	assert.Equal(t, "2024.01.10", d)
	assert.False(t, renewed)

	d, renewed = displayDate(pub, pub.Add(48*time.Hour))
	assert.Equal(t, "2024.01.12", d)
	assert.True(t, renewed)

	d, renewed = displayDate(time.Time{}, time.Time{})
	assert.Empty(t, d)
	assert.False(t, renewed)
}
