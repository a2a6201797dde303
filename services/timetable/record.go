package timetable

import (
	"math"
	"strconv"
	"strings"
)

// Record is one loosely typed upstream row. Every accessor returns a fallback
// instead of failing when the field is absent or has an unexpected shape.
type Record map[string]any

// AsRecord converts a decoded JSON value into a Record.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, m != nil
	case map[string]any:
		return Record(m), m != nil
	default:
		return nil, false
	}
}

// Get returns the raw field value.
func (r Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Record returns a nested object field.
func (r Record) Record(key string) (Record, bool) {
	v, ok := r.Get(key)
	if !ok {
		return nil, false
	}
	return AsRecord(v)
}

// List returns a field that is a JSON array.
func (r Record) List(key string) ([]any, bool) {
	v, ok := r.Get(key)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	return list, ok
}

// String returns a non-empty textual field or def. Numbers are formatted.
func (r Record) String(key, def string) string {
	v, ok := r.Get(key)
	if !ok {
		return def
	}
	s, ok := stringify(v)
	if !ok || s == "" {
		return def
	}
	return s
}

// ID returns the string form of an identifier field.
func (r Record) ID(key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok {
		return "", false
	}
	return stringify(v)
}

// FirstID returns the string form of the first element of a list field.
func (r Record) FirstID(key string) (string, bool) {
	list, ok := r.List(key)
	if !ok || len(list) == 0 || list[0] == nil {
		return "", false
	}
	return stringify(list[0])
}

// Number returns a numeric field. Numeric strings are accepted, blanks are not.
func (r Record) Number(key string) (float64, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// DisplayName returns the short label, then the full name, else "".
func (r Record) DisplayName() string {
	return r.String("short", r.String("name", ""))
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func toNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
