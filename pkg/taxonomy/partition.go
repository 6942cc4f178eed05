package taxonomy

import (
	"github.com/samber/lo"

	"melonworks-site/pkg/models"
)

// Filter selects tags for navigation lists. Empty fields do not filter.
type Filter struct {
	Type      string // models.TagTypeProblem or models.TagTypeSolution
	ServiceID string
}

// Partition returns the names of the tags passing every set filter, in
// collection order. Duplicate names are kept.
func Partition(tags []models.Tag, f Filter) []string {
	matched := lo.Filter(tags, func(t models.Tag, _ int) bool {
		if f.Type != "" && !t.HasType(f.Type) {
			return false
		}
		if f.ServiceID != "" && !t.RelatedTo(f.ServiceID) {
			return false
		}
		return true
	})
	return lo.Map(matched, func(t models.Tag, _ int) string { return t.Name })
}

// Split returns the problem and the solution tag names, optionally limited to
// the tags related to serviceID.
func Split(tags []models.Tag, serviceID string) (problems, solutions []string) {
	problems = Partition(tags, Filter{Type: models.TagTypeProblem, ServiceID: serviceID})
	solutions = Partition(tags, Filter{Type: models.TagTypeSolution, ServiceID: serviceID})
	return problems, solutions
}
