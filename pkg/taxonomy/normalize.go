package taxonomy

import "github.com/samber/lo"

// nameFields are the record fields holding a tag name, in priority order.
var nameFields = []string{"name", "tag", "label"}

// TagName returns the display name of a tag reference of unknown shape:
// a plain string, a record with one of the name fields, or nothing.
// It never panics; unrecognized input yields "".
func TagName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return First(lo.Map(nameFields, func(key string, _ int) func() string {
			return Field(t, key)
		})...)
	default:
		return ""
	}
}

// TagNames maps every reference to its display name, keeping order.
func TagNames(refs []any) []string {
	return lo.Map(refs, func(ref any, _ int) string { return TagName(ref) })
}
