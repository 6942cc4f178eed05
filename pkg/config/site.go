package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"melonworks-site/pkg/models"
)

//go:embed site.yml
var defaultSite []byte

// Site is the static table of the site: services, inquiry types and the
// operator's details. It is read once at startup and never changes.
type Site struct {
	DefaultCategory  string           `yaml:"default_category"`
	PlaceholderImage string           `yaml:"placeholder_image"`
	Company          models.Company   `yaml:"company"`
	Services         []models.Service `yaml:"services"`
	InquiryTypes     []string         `yaml:"inquiry_types"`
}

// LoadSite reads the site table from path, or the embedded default when path
// is empty.
func LoadSite(path string) (*Site, error) {
	data := defaultSite
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read site config: %w", err)
		}
	}

	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site config: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}
	return &s, nil
}

func (s *Site) validate() error {
	if s.DefaultCategory == "" {
		return errors.New("default_category is empty")
	}
	if len(s.Services) == 0 {
		return errors.New("no services")
	}

	seen := map[string]bool{}
	for _, svc := range s.Services {
		if svc.ID == "" || svc.Title == "" {
			return fmt.Errorf("service %q: id and title are required", svc.ID)
		}
		if seen[svc.ID] {
			return fmt.Errorf("duplicate service id %q", svc.ID)
		}
		seen[svc.ID] = true
	}

	if len(s.InquiryTypes) == 0 {
		return errors.New("no inquiry types")
	}
	return nil
}
