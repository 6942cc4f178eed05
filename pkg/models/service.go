package models

// Service is one of the fixed business offerings of the company.
type Service struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	ShortTitle  string `yaml:"short_title" json:"short_title,omitempty"`
	Description string `yaml:"description" json:"description"`
	Path        string `yaml:"path" json:"path"`
	Icon        string `yaml:"icon" json:"icon"`

	// Terms matched against article tags to list articles on the service page.
	ProblemTerms  []string `yaml:"problem_terms" json:"-"`
	SolutionTerms []string `yaml:"solution_terms" json:"-"`
}

// NavTitle is the label used in navigation menus.
func (s Service) NavTitle() string {
	if s.ShortTitle != "" {
		return s.ShortTitle
	}
	return s.Title
}
