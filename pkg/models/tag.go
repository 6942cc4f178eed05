package models

import (
	"encoding/json"
	"strings"
)

// Tag types used by the CMS.
const (
	TagTypeProblem  = "problem"
	TagTypeSolution = "solution"
)

// Tag is a labeled topic attached to articles.
type Tag struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            StringList `json:"type"`
	RelatedServices StringList `json:"related_services"`
}

// HasType reports whether the tag carries the marker. A composite value such
// as "problem,solution" matches both markers.
func (t Tag) HasType(marker string) bool {
	if marker == "" {
		return false
	}
	for _, v := range t.Type {
		if strings.Contains(v, marker) {
			return true
		}
	}
	return false
}

// RelatedTo reports whether serviceID is listed in the tag's related services.
func (t Tag) RelatedTo(serviceID string) bool {
	for _, id := range t.RelatedServices {
		if id == serviceID {
			return true
		}
	}
	return false
}

// StringList is a list of strings that may arrive as a single string.
type StringList []string

// UnmarshalJSON accepts null, a string or an array. Non-string elements are
// skipped.
func (l *StringList) UnmarshalJSON(b []byte) error {
	*l = nil

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case string:
		if v != "" {
			*l = StringList{v}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				*l = append(*l, s)
			}
		}
	}
	return nil
}
