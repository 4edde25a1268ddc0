// Package extractor reads typed values out of raw listing payloads (nested maps decoded from JSON or YAML)
package extractor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Extractor resolves dot paths such as "features.elevator" or "rooms[0].size" against nested data
type Extractor struct{}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the value at path. A missing key yields (nil, nil); a path that walks
// through a scalar yields an error.
// Supported syntax:
//   - keys: "price", "location.area"
//   - indexes: "photos[0]", "rooms[1].size"
//   - wildcard: "units[*].price" returns the first non-nil match
func (e *Extractor) Extract(data any, path string) (any, error) {
	if path == "" {
		return data, nil
	}

	parts := parsePath(path)
	current := data

	for i, part := range parts {
		if part.isWildcard {
			arr, ok := toArray(lookupKey(current, part.key))
			if !ok {
				return nil, nil
			}
			rest := joinParts(parts[i+1:])
			for _, item := range arr {
				value, err := e.Extract(item, rest)
				if err == nil && value != nil {
					return value, nil
				}
			}
			return nil, nil
		}

		var err error
		current, err = extractPart(current, part)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, nil
		}
	}

	return current, nil
}

// First returns the first non-nil value found among paths
func (e *Extractor) First(data any, paths ...string) any {
	for _, path := range paths {
		value, err := e.Extract(data, path)
		if err == nil && value != nil {
			return value
		}
	}
	return nil
}

// ExtractAll extracts every value matched by a wildcard path
func (e *Extractor) ExtractAll(data any, path string) ([]any, error) {
	if path == "" {
		return []any{data}, nil
	}

	results := []any{data}
	for _, part := range parsePath(path) {
		var next []any
		for _, current := range results {
			if current == nil {
				continue
			}
			if part.isWildcard {
				if arr, ok := toArray(lookupKey(current, part.key)); ok {
					next = append(next, arr...)
				}
				continue
			}
			value, err := extractPart(current, part)
			if err != nil {
				continue
			}
			if value != nil {
				next = append(next, value)
			}
		}
		results = next
	}

	return results, nil
}

// String returns the scalar at the first resolvable path as a string
func (e *Extractor) String(data any, paths ...string) (string, bool) {
	switch value := e.First(data, paths...).(type) {
	case nil, map[string]any, []any:
		return "", false
	default:
		s := ToString(value)
		return s, s != ""
	}
}

// Float returns the value at the first resolvable path as a float64
func (e *Extractor) Float(data any, paths ...string) (float64, bool) {
	return ToFloat(e.First(data, paths...))
}

// Int returns the value at the first resolvable path as an int
func (e *Extractor) Int(data any, paths ...string) (int, bool) {
	f, ok := ToFloat(e.First(data, paths...))
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool returns the value at the first resolvable path as a bool
func (e *Extractor) Bool(data any, paths ...string) (bool, bool) {
	return ToBool(e.First(data, paths...))
}

type pathPart struct {
	key        string
	isArray    bool
	arrayIndex int
	isWildcard bool
}

func parsePath(path string) []pathPart {
	var parts []pathPart

	for _, seg := range splitPath(path) {
		part := pathPart{key: seg}

		if idx := strings.Index(seg, "["); idx != -1 && strings.HasSuffix(seg, "]") {
			part.key = seg[:idx]
			index := seg[idx+1 : len(seg)-1]

			if index == "*" {
				part.isWildcard = true
				part.isArray = true
			} else if i, err := strconv.Atoi(index); err == nil {
				part.isArray = true
				part.arrayIndex = i
			}
		}

		parts = append(parts, part)
	}

	return parts
}

func joinParts(parts []pathPart) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		switch {
		case p.isWildcard:
			segs = append(segs, p.key+"[*]")
		case p.isArray:
			segs = append(segs, fmt.Sprintf("%s[%d]", p.key, p.arrayIndex))
		default:
			segs = append(segs, p.key)
		}
	}
	return strings.Join(segs, ".")
}

// splitPath splits a dot path, ignoring dots inside brackets
func splitPath(path string) []string {
	var parts []string
	var current strings.Builder

	inBracket := false
	for _, c := range path {
		switch c {
		case '[':
			inBracket = true
			current.WriteRune(c)
		case ']':
			inBracket = false
			current.WriteRune(c)
		case '.':
			if inBracket {
				current.WriteRune(c)
				continue
			}
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(c)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func lookupKey(data any, key string) any {
	if key == "" {
		return data
	}
	switch v := data.(type) {
	case map[string]any:
		return v[key]
	case map[string]string:
		if s, ok := v[key]; ok {
			return s
		}
	}
	return nil
}

func extractPart(data any, part pathPart) (any, error) {
	value := data

	if part.key != "" {
		switch v := data.(type) {
		case map[string]any:
			val, ok := v[part.key]
			if !ok {
				return nil, nil
			}
			value = val
		case map[string]string:
			val, ok := v[part.key]
			if !ok {
				return nil, nil
			}
			value = val
		default:
			return nil, eris.Errorf("cannot extract key %q from type %T", part.key, data)
		}
	}

	if part.isArray && !part.isWildcard {
		arr, ok := toArray(value)
		if !ok {
			return nil, eris.Errorf("expected array for index access, got %T", value)
		}
		if part.arrayIndex < 0 || part.arrayIndex >= len(arr) {
			return nil, nil
		}
		return arr[part.arrayIndex], nil
	}

	return value, nil
}

func toArray(v any) ([]any, bool) {
	switch arr := v.(type) {
	case []any:
		return arr, true
	case []string:
		result := make([]any, len(arr))
		for i, s := range arr {
			result[i] = s
		}
		return result, true
	case []map[string]any:
		result := make([]any, len(arr))
		for i, m := range arr {
			result[i] = m
		}
		return result, true
	default:
		return nil, false
	}
}

// ToString converts a scalar to its string form; maps and slices are JSON encoded
func ToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// ToFloat converts numbers and numeric strings ("250.000" style thousands separators excluded)
func ToFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ToBool converts booleans, numbers and yes/no style strings (English and Greek)
func ToBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case float64:
		return val != 0, true
	case int:
		return val != 0, true
	case int64:
		return val != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "1", "ναι":
			return true, true
		case "false", "no", "n", "0", "όχι", "οχι":
			return false, true
		}
	}
	return false, false
}
