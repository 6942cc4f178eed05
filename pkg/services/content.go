package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"melonworks-site/pkg/cms"
	"melonworks-site/pkg/models"
	"melonworks-site/pkg/taxonomy"
)

// ErrNotFound is returned for content that doesn't exist.
var ErrNotFound = errors.New("not found")

// ContentSource reads articles and tags from the CMS.
type ContentSource interface {
	ListArticles(ctx context.Context, q cms.ArticleQuery) ([]models.Article, error)
	GetArticle(ctx context.Context, id string) (models.Article, error)
	ListTags(ctx context.Context, limit int) ([]models.Tag, error)
}

// Page sizes of the content source requests.
const (
	homeLatestLimit     = 6
	pickupLimit         = 5
	sidebarLatestLimit  = 5
	listLimit           = 100
	tagsLimit           = 100
	serviceArticleLimit = 3
)

// JST is the zone dates are displayed in.
var JST = time.FixedZone("Asia/Tokyo", 9*60*60)

// ArticleCard is an article as shown in lists.
type ArticleCard struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Category  string `json:"category"`
	Date      string `json:"date"`
	Renewed   bool   `json:"renewed"`
	Thumbnail string `json:"thumbnail"`
	Pickup    bool   `json:"pickup"`
}

// HomeView is the data of the top page.
type HomeView struct {
	Latest   []ArticleCard
	Pickup   []ArticleCard
	Services []models.Service
}

// ArticleView is the data of a single article page.
type ArticleView struct {
	ArticleCard
	Body          template.HTML
	Excerpt       string
	TOC           []Heading
	CategoryURL   string
	ProblemTags   []string
	SolutionTags  []string
	Latest        []ArticleCard
	SideProblems  []string
	SideSolutions []string
}

// SearchQuery is a search request. Tag and CategoryID exclude each other,
// Tag wins when both are set.
type SearchQuery struct {
	Tag          string `form:"tag" json:"tag"`
	CategoryID   string `form:"categoryId" json:"categoryId"`
	CategoryName string `form:"categoryName" json:"categoryName"`
}

// SearchView is the result of a search.
type SearchView struct {
	Query    SearchQuery      `json:"query"`
	Title    string           `json:"title"`
	Articles []ArticleCard    `json:"articles"`
	Services []models.Service `json:"services"` // suggested services for a tag search
}

// ServiceView is the data of a service page.
type ServiceView struct {
	Service      models.Service
	Articles     []ArticleCard
	ProblemTags  []string
	SolutionTags []string
}

// ContentParams configures Content.
type ContentParams struct {
	Source           ContentSource
	Resolver         *taxonomy.Resolver
	PlaceholderImage string
	Log              *slog.Logger
	Metrics          *Metrics
}

// Content assembles page data from the content source. Every request goes to
// the source, nothing is cached.
type Content struct {
	ContentParams
}

// NewContent makes a Content.
func NewContent(p ContentParams) *Content {
	if p.Log == nil {
		p.Log = slog.Default()
	}
	return &Content{ContentParams: p}
}

// Home loads the latest and the pickup articles.
func (c *Content) Home(ctx context.Context) HomeView {
	var latest, pickup []models.Article
	var tags []models.Tag

	var g errgroup.Group
	g.Go(guard(ctx, c, "latest", &latest, func(ctx context.Context) ([]models.Article, error) {
		return c.Source.ListArticles(ctx, cms.ArticleQuery{Limit: homeLatestLimit, Orders: cms.OrderNewest})
	}))
	g.Go(guard(ctx, c, "pickup", &pickup, func(ctx context.Context) ([]models.Article, error) {
		return c.Source.ListArticles(ctx, cms.ArticleQuery{
			Limit:   pickupLimit,
			Orders:  cms.OrderNewest,
			Filters: cms.Equals("pickup", "true"),
		})
	}))
	g.Go(c.tags(ctx, &tags))
	_ = g.Wait()

	return HomeView{
		Latest:   c.cards(latest, tags),
		Pickup:   c.cards(pickup, tags),
		Services: c.Resolver.Services(),
	}
}

// ArticleList loads all articles, newest first.
func (c *Content) ArticleList(ctx context.Context) []ArticleCard {
	var articles []models.Article
	var tags []models.Tag

	var g errgroup.Group
	g.Go(guard(ctx, c, "articles", &articles, func(ctx context.Context) ([]models.Article, error) {
		return c.Source.ListArticles(ctx, cms.ArticleQuery{Limit: listLimit, Orders: cms.OrderNewest})
	}))
	g.Go(c.tags(ctx, &tags))
	_ = g.Wait()

	return c.cards(articles, tags)
}

// Article loads one article with its sidebar. Any failure to get the article
// itself is reported as ErrNotFound.
func (c *Content) Article(ctx context.Context, id string) (ArticleView, error) {
	var article models.Article
	var latest []models.Article
	var tags []models.Tag

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := c.Source.GetArticle(gctx, id)
		if err != nil {
			if !errors.Is(err, cms.ErrNotFound) {
				c.Log.WarnContext(ctx, "failed to get article", slog.String("id", id), slog.Any("err", err))
				c.Metrics.fetchFailed("article")
			}
			return fmt.Errorf("article %q: %w", id, ErrNotFound)
		}
		article = a
		return nil
	})
	g.Go(guard(gctx, c, "latest", &latest, func(ctx context.Context) ([]models.Article, error) {
		return c.Source.ListArticles(ctx, cms.ArticleQuery{Limit: sidebarLatestLimit, Orders: cms.OrderNewest})
	}))
	g.Go(c.tags(gctx, &tags))
	if err := g.Wait(); err != nil {
		return ArticleView{}, err
	}

	body, excerpt, toc, err := inspectBody(article.Content)
	if err != nil {
		c.Log.WarnContext(ctx, "failed to inspect article body", slog.String("id", id), slog.Any("err", err))
	}

	card := c.card(article, tags)
	categoryURL := "/articles"
	if svc, ok := c.Resolver.ServiceByTitle(card.Category); ok {
		categoryURL = svc.Path
	}
	sideProblems, sideSolutions := taxonomy.Split(tags, "")

	return ArticleView{
		ArticleCard:   card,
		Body:          template.HTML(body), //nolint:gosec // html comes from the trusted cms
		Excerpt:       excerpt,
		TOC:           toc,
		CategoryURL:   categoryURL,
		ProblemTags:   nonEmpty(taxonomy.TagNames(article.ProblemTags)),
		SolutionTags:  nonEmpty(taxonomy.TagNames(article.SolutionTags)),
		Latest:        c.cards(latest, tags),
		SideProblems:  sideProblems,
		SideSolutions: sideSolutions,
	}, nil
}

// Search finds articles by tag (free text) or by category id.
func (c *Content) Search(ctx context.Context, q SearchQuery) SearchView {
	aq := cms.ArticleQuery{Limit: listLimit, Orders: cms.OrderNewest}
	view := SearchView{Query: q, Title: "記事一覧"}

	switch {
	case q.Tag != "":
		aq.Q = q.Tag
		view.Title = "#" + q.Tag
		view.Query.CategoryID, view.Query.CategoryName = "", ""
	case q.CategoryID != "":
		aq.Filters = cms.Equals("category", q.CategoryID)
		view.Title = lo.Ternary(q.CategoryName != "", q.CategoryName, "記事一覧")
	}

	var articles []models.Article
	var tags []models.Tag

	var g errgroup.Group
	g.Go(guard(ctx, c, "search", &articles, func(ctx context.Context) ([]models.Article, error) {
		return c.Source.ListArticles(ctx, aq)
	}))
	g.Go(c.tags(ctx, &tags))
	_ = g.Wait()

	view.Articles = c.cards(articles, tags)
	if q.Tag != "" {
		view.Services = c.Resolver.Match(q.Tag, tags)
	}
	return view
}

// Service loads a service page. Unknown ids are ErrNotFound.
func (c *Content) Service(ctx context.Context, id string) (ServiceView, error) {
	svc, ok := c.Resolver.Service(id)
	if !ok {
		return ServiceView{}, fmt.Errorf("service %q: %w", id, ErrNotFound)
	}

	var articles []models.Article
	var tags []models.Tag

	var g errgroup.Group
	if filter := serviceFilter(svc); filter != "" {
		g.Go(guard(ctx, c, "service_articles", &articles, func(ctx context.Context) ([]models.Article, error) {
			return c.Source.ListArticles(ctx, cms.ArticleQuery{
				Limit:   serviceArticleLimit,
				Orders:  cms.OrderNewest,
				Filters: filter,
			})
		}))
	}
	g.Go(c.tags(ctx, &tags))
	_ = g.Wait()

	problems, solutions := taxonomy.Split(tags, svc.ID)
	return ServiceView{
		Service:      svc,
		Articles:     c.cards(articles, tags),
		ProblemTags:  problems,
		SolutionTags: solutions,
	}, nil
}

// Services lists the fixed services.
func (c *Content) Services() []models.Service {
	return c.Resolver.Services()
}

// Tags loads the tag collection and partitions it by f.
func (c *Content) Tags(ctx context.Context, f taxonomy.Filter) []string {
	var tags []models.Tag
	_ = c.tags(ctx, &tags)()
	return taxonomy.Partition(tags, f)
}

func (c *Content) tags(ctx context.Context, dst *[]models.Tag) func() error {
	return guard(ctx, c, "tags", dst, func(ctx context.Context) ([]models.Tag, error) {
		return c.Source.ListTags(ctx, tagsLimit)
	})
}

// guard runs fn and stores its result in dst. A failure is logged and
// counted, dst keeps its zero value and the group is not cancelled.
func guard[T any](ctx context.Context, c *Content, name string, dst *T, fn func(context.Context) (T, error)) func() error {
	return func() error {
		v, err := fn(ctx)
		if err != nil {
			c.Log.WarnContext(ctx, "content fetch failed", slog.String("fetch", name), slog.Any("err", err))
			c.Metrics.fetchFailed(name)
			return nil
		}
		*dst = v
		return nil
	}
}

func (c *Content) cards(articles []models.Article, tags []models.Tag) []ArticleCard {
	return lo.Map(articles, func(a models.Article, _ int) ArticleCard { return c.card(a, tags) })
}

func (c *Content) card(a models.Article, tags []models.Tag) ArticleCard {
	date, renewed := displayDate(a.PublishedAt, a.RenewedAt)
	return ArticleCard{
		ID:        a.ID,
		Title:     a.Title,
		URL:       "/article/" + a.ID,
		Category:  c.Resolver.Category(a, tags),
		Date:      date,
		Renewed:   renewed,
		Thumbnail: lo.Ternary(a.Thumbnail.URL != "", a.Thumbnail.URL, c.PlaceholderImage),
		Pickup:    a.Pickup,
	}
}

// displayDate shows the renewal date when the article was renewed on a later
// day than it was published.
func displayDate(published, renewed time.Time) (string, bool) {
	const layout = "2006.01.02"
	pub := ""
	if !published.IsZero() {
		pub = published.In(JST).Format(layout)
	}
	if renewed.IsZero() {
		return pub, false
	}
	rev := renewed.In(JST).Format(layout)
	return rev, rev != pub
}

// serviceFilter matches articles tagged with any of the service's terms.
func serviceFilter(svc models.Service) cms.Filter {
	var filters []cms.Filter
	for _, term := range svc.SolutionTerms {
		filters = append(filters, cms.Contains("solution_tags", term))
	}
	for _, term := range svc.ProblemTerms {
		filters = append(filters, cms.Contains("problem_tags", term))
	}
	return cms.Or(filters...)
}

func nonEmpty(names []string) []string {
	return lo.Filter(names, func(s string, _ int) bool { return s != "" })
}
