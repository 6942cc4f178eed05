// Package taxonomy resolves display categories, related services and tag
// listings from CMS tags and the fixed service table.
package taxonomy

// First calls the accessors in order and returns the first non-zero value.
func First[T comparable](accessors ...func() T) T {
	var zero T
	for _, get := range accessors {
		if v := get(); v != zero {
			return v
		}
	}
	return zero
}

// Field returns an accessor reading a string field from a decoded record.
// Missing fields and non-string values yield "".
func Field(m map[string]any, key string) func() string {
	return func() string {
		s, _ := m[key].(string)
		return s
	}
}
