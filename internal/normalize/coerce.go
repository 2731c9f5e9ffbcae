package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// field returns the value of the first key present with a non-null value
func field(obj map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// asList returns v as a list, or nil when v is not a JSON array
func asList(v any) []any {
	items, _ := v.([]any)
	return items
}

// objects returns the object items of a list, dropping everything else
func objects(v any) []map[string]any {
	items := asList(v)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// asString converts a decoded scalar to a string. Numbers keep their literal form,
// null becomes "", and nested objects or arrays become compact JSON.
func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// asBool converts a decoded value to a bool. Strings go through strconv.ParseBool,
// numbers are true when non-zero, anything else is false.
func asBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return err == nil && b
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	case float64:
		return val != 0
	default:
		return false
	}
}

// stringList returns the non-blank scalar items of a list as strings
func stringList(v any) []string {
	items := asList(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch item.(type) {
		case map[string]any, []any, nil:
			continue
		}
		if s := asString(item); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
