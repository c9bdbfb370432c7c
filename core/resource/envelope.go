package resource

import (
	"encoding/json"
	"time"
)

// The backend wraps collection responses inconsistently across endpoints:
// a bare array, {data: [...]}, {items: [...]} and {success, data} have all
// been observed. Decoding tries a small ordered set of shape matchers; a
// response matching none of them decodes to an empty collection rather than
// failing, so an unknown shape renders as an empty list instead of crashing
// the page.

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DecodeCollection normalizes any of the tolerated envelope shapes to a
// resource slice, preserving server order.
func DecodeCollection(data []byte) ([]Resource, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return normalizeCollection(v), nil
}

// DecodeItem normalizes a single-resource response: a bare object or any of
// the envelope shapes wrapping one.
func DecodeItem(data []byte) (Resource, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return Resource{}, err
	}
	if m, ok := v.(map[string]interface{}); ok {
		for _, key := range []string{"data", "item"} {
			if wrapped, ok := m[key].(map[string]interface{}); ok {
				return FromMap(wrapped), nil
			}
		}
		return FromMap(m), nil
	}
	return Resource{}, nil
}

func normalizeCollection(v interface{}) []Resource {
	switch val := v.(type) {
	case []interface{}:
		return fromSlice(val)
	case map[string]interface{}:
		// {data: [...]} also covers {success, data}
		for _, key := range []string{"data", "items"} {
			if arr, ok := val[key].([]interface{}); ok {
				return fromSlice(arr)
			}
		}
	}
	return []Resource{}
}

func fromSlice(arr []interface{}) []Resource {
	items := make([]Resource, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]interface{}); ok {
			items = append(items, FromMap(m))
		}
	}
	return items
}

// FromMap builds a Resource from a decoded JSON object, extracting the
// identifier and timestamps; the full object stays available in Fields.
func FromMap(m map[string]interface{}) Resource {
	return Resource{
		ID:        extractID(m),
		Fields:    m,
		CreatedAt: extractTime(m, "createdAt", "created_at"),
		UpdatedAt: extractTime(m, "updatedAt", "updated_at"),
	}
}

// extractID accepts the id spellings seen across backends: "id" or "_id",
// string or numeric.
func extractID(m map[string]interface{}) string {
	for _, key := range []string{"id", "_id"} {
		if v, ok := m[key]; ok {
			if s := stringValue(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func extractTime(m map[string]interface{}, keys ...string) time.Time {
	for _, key := range keys {
		s, ok := m[key].(string)
		if !ok {
			continue
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
