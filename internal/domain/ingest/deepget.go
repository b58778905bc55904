package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DeepGet follows path through nested objects (and arrays, by index). It
// returns the zero Result as soon as a key is missing or a step lands on a
// value that cannot be traversed; it never fails.
func DeepGet(data gjson.Result, path ...string) gjson.Result {
	current := data
	for _, key := range path {
		switch {
		case current.IsObject():
			current = objectField(current, key)
		case current.IsArray():
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 {
				return gjson.Result{}
			}
			items := current.Array()
			if idx >= len(items) {
				return gjson.Result{}
			}
			current = items[idx]
		default:
			return gjson.Result{}
		}
		if !current.Exists() {
			return gjson.Result{}
		}
	}
	return current
}

// objectField matches the key literally, so keys containing gjson path
// syntax ('.', '*', '?') are not interpreted.
func objectField(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
		}
		return true
	})
	return found
}

func optString(r gjson.Result) *string {
	switch r.Type {
	case gjson.String:
		value := r.Str
		return &value
	case gjson.Number, gjson.True, gjson.False:
		value := r.String()
		return &value
	default:
		return nil
	}
}

func optInt64(r gjson.Result) *int64 {
	switch r.Type {
	case gjson.Number:
		value := r.Int()
		return &value
	case gjson.String:
		value, err := strconv.ParseInt(strings.TrimSpace(r.Str), 10, 64)
		if err != nil {
			return nil
		}
		return &value
	default:
		return nil
	}
}

func optInt(r gjson.Result) *int {
	value := optInt64(r)
	if value == nil {
		return nil
	}
	out := int(*value)
	return &out
}

func optBool(r gjson.Result) *bool {
	switch r.Type {
	case gjson.True, gjson.False:
		value := r.Bool()
		return &value
	case gjson.String:
		value, err := strconv.ParseBool(strings.TrimSpace(r.Str))
		if err != nil {
			return nil
		}
		return &value
	default:
		return nil
	}
}

func optFloat(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		value := r.Num
		return &value
	case gjson.String:
		value, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		return &value
	default:
		return nil
	}
}

// rawText keeps a generic field value verbatim: strings unquoted, other
// scalars as their JSON text, null as nil.
func rawText(r gjson.Result) *string {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		value := r.Str
		return &value
	default:
		value := r.Raw
		return &value
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate reads an ISO-8601 date or date-time. Absent, empty or
// unparseable values give nil.
func ParseDate(r gjson.Result) *time.Time {
	if r.Type != gjson.String {
		return nil
	}
	value := strings.TrimSpace(r.Str)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return &parsed
		}
	}
	return nil
}
