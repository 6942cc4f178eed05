package cms

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter is a filter expression understood by the CMS, e.g.
// "category[equals]news[or]problem_tags[contains]DX".
type Filter string

// Equals matches records whose field equals value.
func Equals(field, value string) Filter { return Filter(field + "[equals]" + value) }

// Contains matches records whose field contains value.
func Contains(field, value string) Filter { return Filter(field + "[contains]" + value) }

// Or combines filters, any of them has to match. Empty filters are skipped.
func Or(filters ...Filter) Filter { return join("[or]", filters) }

// And combines filters, all of them have to match. Empty filters are skipped.
func And(filters ...Filter) Filter { return join("[and]", filters) }

func join(sep string, filters []Filter) Filter {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if f != "" {
			parts = append(parts, string(f))
		}
	}
	return Filter(strings.Join(parts, sep))
}

// OrderNewest sorts by publish date, newest first.
const OrderNewest = "-publishedAt"

// ArticleQuery describes a listing request for articles.
type ArticleQuery struct {
	Limit   int
	Offset  int
	Orders  string
	Filters Filter
	Q       string // full-text search
}

// Values encodes the query for the list endpoint.
func (q ArticleQuery) Values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Orders != "" {
		v.Set("orders", q.Orders)
	}
	if q.Filters != "" {
		v.Set("filters", string(q.Filters))
	}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	return v
}
