package taxonomy

import (
	"strings"

	"github.com/samber/lo"

	"melonworks-site/pkg/models"
)

// DefaultCategory is shown when nothing else names an article's category.
const DefaultCategory = "お知らせ"

// Resolver answers category and service questions against the service table
// it was built with. It is read-only and safe for concurrent use.
type Resolver struct {
	services []models.Service
	fallback string
}

// NewResolver makes a Resolver for the given services. An empty fallback
// label selects DefaultCategory.
func NewResolver(services []models.Service, fallback string) *Resolver {
	if fallback == "" {
		fallback = DefaultCategory
	}
	return &Resolver{services: services, fallback: fallback}
}

// Services returns the service table in display order.
func (r *Resolver) Services() []models.Service { return r.services }

// Service looks a service up by id.
func (r *Resolver) Service(id string) (models.Service, bool) {
	return lo.Find(r.services, func(s models.Service) bool { return s.ID == id })
}

// ServiceByTitle looks a service up by its title.
func (r *Resolver) ServiceByTitle(title string) (models.Service, bool) {
	return lo.Find(r.services, func(s models.Service) bool { return s.Title == title })
}

// Category returns the display category of an article. An explicit category
// wins; otherwise the first tag, problem tags before solution tags, whose
// record lists related services names the category after the first of those
// services that exists. The result is never empty.
func (r *Resolver) Category(a models.Article, tags []models.Tag) string {
	if cat, ok := a.Category.Resolve(); ok {
		if cat.Name != "" {
			return cat.Name
		}
		return r.fallback
	}

	refs := append(append([]any{}, a.ProblemTags...), a.SolutionTags...)
	for _, name := range TagNames(refs) {
		tag, ok := findTag(tags, name)
		if !ok || len(tag.RelatedServices) == 0 {
			continue
		}
		if svc, ok := r.Service(tag.RelatedServices[0]); ok {
			return svc.Title
		}
	}

	return r.fallback
}

// Match returns the services suggested for a search keyword. When a tag
// named keyword lists related services, exactly those services are
// returned in table order. Otherwise services whose title contains the
// keyword are returned. An empty keyword matches nothing.
func (r *Resolver) Match(keyword string, tags []models.Tag) []models.Service {
	if keyword == "" {
		return nil
	}

	if tag, ok := findTag(tags, keyword); ok && len(tag.RelatedServices) > 0 {
		return lo.Filter(r.services, func(s models.Service, _ int) bool {
			return tag.RelatedTo(s.ID)
		})
	}

	return lo.Filter(r.services, func(s models.Service, _ int) bool {
		return strings.Contains(s.Title, keyword)
	})
}

// findTag returns the first tag record with exactly the given name.
func findTag(tags []models.Tag, name string) (models.Tag, bool) {
	if name == "" {
		return models.Tag{}, false
	}
	return lo.Find(tags, func(t models.Tag) bool { return t.Name == name })
}
