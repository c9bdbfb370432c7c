package resource

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("resource not found")
)

type (
	// Resource is an opaque backend-owned record: an identifier plus a bag of
	// fields. The client only ever holds a cached, possibly-stale copy of it;
	// reconciliation is always a full refetch, never a local patch.
	Resource struct {
		ID        string
		Fields    map[string]interface{}
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Field declares one field of a resource type.
	Field struct {
		Name       string
		Label      string
		Required   bool
		Numeric    bool
		Searchable bool
		// Reference marks a field holding a populated nested object;
		// equality filters match against the nested object's id.
		Reference bool
	}

	// Schema is the declarative configuration a page supplies to get a
	// Controller: the endpoint, the fields and which of them are required,
	// numeric or searchable, and the filters the backend supports server-side.
	Schema struct {
		Name     string // singular, used in user-facing messages
		Endpoint string // collection path, e.g. "/api/assignments"
		Fields   []Field
		// QueryParams lists criteria fields forwarded to the backend as
		// query parameters; everything else is filtered client-side only.
		QueryParams []string
	}

	// Backend is the client side of the REST convention all school resources
	// follow: a collection endpoint plus item endpoints keyed by id.
	Backend interface {
		List(ctx context.Context, path string, query url.Values) ([]Resource, error)
		Create(ctx context.Context, path string, body map[string]interface{}) (Resource, error)
		Update(ctx context.Context, path, id string, body map[string]interface{}) (Resource, error)
		Delete(ctx context.Context, path, id string) error
	}

	// Repository is the storage contract the dev stub backend persists
	// resources through.
	Repository interface {
		QueryAll(ctx context.Context, collection string) ([]Resource, error)
		Get(ctx context.Context, collection, id string) (Resource, error)
		Create(ctx context.Context, collection string, fields map[string]interface{}) (Resource, error)
		Update(ctx context.Context, collection, id string, fields map[string]interface{}) (Resource, error)
		Delete(ctx context.Context, collection, id string) error
	}
)

// Field returns the declaration for the named field, if any.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// SearchFields returns the names of the fields free-text search matches against.
func (s Schema) SearchFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Searchable {
			names = append(names, f.Name)
		}
	}
	return names
}

// SupportsQueryParam reports whether the backend accepts the named field as a
// collection query parameter.
func (s Schema) SupportsQueryParam(name string) bool {
	for _, p := range s.QueryParams {
		if p == name {
			return true
		}
	}
	return false
}

// Str returns the named field rendered as a string; numbers and booleans are
// formatted, missing fields and nested objects yield "".
func (r Resource) Str(name string) string {
	return stringValue(r.Fields[name])
}

// RefID resolves the named field to a referenced id: a populated nested
// object yields its own id field, a plain value yields itself.
func (r Resource) RefID(name string) string {
	v, ok := r.Fields[name]
	if !ok {
		return ""
	}
	if nested, ok := v.(map[string]interface{}); ok {
		return extractID(nested)
	}
	return stringValue(v)
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}
