package listing

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Record is a single decoded JSON object from the API.
type Record = map[string]any

// ErrUnrecognizedShape is reported by NormalizeStrict when a response body
// does not carry a list of records.
var ErrUnrecognizedShape = errors.New("unrecognized response shape")

// Pagination mirrors the Laravel paginator fields.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// HasPage reports whether n is a page the server can serve.
func (p Pagination) HasPage(n int) bool {
	last := p.LastPage
	if last < 1 {
		last = 1
	}
	return n >= 1 && n <= last
}

// Normalize extracts a flat list of records and optional pagination from a
// response body of unknown shape. Unrecognized shapes yield an empty list.
func Normalize(raw any) ([]Record, *Pagination) {
	items, pagination, _ := NormalizeStrict(raw)
	return items, pagination
}

// NormalizeStrict is Normalize that also reports ErrUnrecognizedShape when the
// body had no list to extract. The returned items are never nil.
func NormalizeStrict(raw any) ([]Record, *Pagination, error) {
	switch v := raw.(type) {
	case map[string]any:
		data, ok := v["data"]
		if !ok {
			return []Record{}, nil, ErrUnrecognizedShape
		}
		if list, isList := data.([]any); isList {
			return records(list), paginationOf(v), nil
		}
		return []Record{}, nil, ErrUnrecognizedShape
	case []any:
		return records(v), nil, nil
	case []Record:
		out := make([]Record, 0, len(v))
		out = append(out, v...)
		return out, nil, nil
	default:
		return []Record{}, nil, ErrUnrecognizedShape
	}
}

// Single unwraps a detail response: the data object when present, else the
// body itself.
func Single(raw any) (Record, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	if inner, ok := obj["data"].(map[string]any); ok {
		return inner, true
	}
	return obj, true
}

func records(list []any) []Record {
	out := make([]Record, 0, len(list))
	for _, entry := range list {
		if rec, ok := entry.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

func paginationOf(body map[string]any) *Pagination {
	if meta, ok := body["meta"].(map[string]any); ok {
		if nested, ok := meta["pagination"].(map[string]any); ok {
			if p, ok := paginationFields(nested); ok {
				return p
			}
		}
		if p, ok := paginationFields(meta); ok {
			return p
		}
	}
	if p, ok := paginationFields(body); ok {
		return p
	}
	return nil
}

func paginationFields(fields map[string]any) (*Pagination, bool) {
	current, hasCurrent := intField(fields, "current_page")
	last, hasLast := intField(fields, "last_page")
	if !hasCurrent && !hasLast {
		return nil, false
	}
	perPage, _ := intField(fields, "per_page")
	total, _ := intField(fields, "total")
	return &Pagination{
		CurrentPage: current,
		LastPage:    last,
		PerPage:     perPage,
		Total:       total,
	}, true
}

func intField(fields map[string]any, key string) (int, bool) {
	switch v := fields[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
