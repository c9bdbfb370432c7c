package resource

import (
	"net/url"
	"strings"
)

// FilterAll is the sentinel value meaning "no constraint on this field".
const FilterAll = "all"

// Criteria is the client-side-only search/filter predicate applied to a
// cached collection to produce the rows actually rendered. It never reaches
// the backend except for fields the schema declares as query parameters.
type Criteria struct {
	// Search is matched case-insensitively as a substring against every
	// searchable field; an item matches if any of them contains it.
	Search string
	// Filters maps field name to an exact-match value; FilterAll or ""
	// means unconstrained.
	Filters map[string]string
}

// WithFilter returns a copy of the criteria with one field filter set.
func (c Criteria) WithFilter(field, value string) Criteria {
	filters := make(map[string]string, len(c.Filters)+1)
	for k, v := range c.Filters {
		filters[k] = v
	}
	filters[field] = value
	c.Filters = filters
	return c
}

// Apply computes the visible rows: a pure function of the collection and the
// criteria, preserving relative order (stable filter, never a re-sort).
func (c Criteria) Apply(schema Schema, items []Resource) []Resource {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	visible := make([]Resource, 0, len(items))
	for _, item := range items {
		if !c.matchSearch(schema, item, search) {
			continue
		}
		if !c.matchFilters(schema, item) {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}

func (c Criteria) matchSearch(schema Schema, item Resource, search string) bool {
	if search == "" {
		return true
	}
	for _, name := range schema.SearchFields() {
		if strings.Contains(strings.ToLower(item.Str(name)), search) {
			return true
		}
	}
	return false
}

func (c Criteria) matchFilters(schema Schema, item Resource) bool {
	for field, want := range c.Filters {
		if want == "" || want == FilterAll {
			continue
		}
		got := item.Str(field)
		if f, ok := schema.Field(field); ok && f.Reference {
			got = item.RefID(field)
		}
		if got != want {
			return false
		}
	}
	return true
}

// ServerQuery returns the subset of the criteria the backend supports as
// collection query parameters.
func (c Criteria) ServerQuery(schema Schema) url.Values {
	query := make(url.Values)
	for field, value := range c.Filters {
		if value == "" || value == FilterAll {
			continue
		}
		if schema.SupportsQueryParam(field) {
			query.Set(field, value)
		}
	}
	return query
}
