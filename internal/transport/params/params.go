// Package params coerces loosely typed request inputs (query strings, tool
// arguments decoded from JSON) into filter values. Unusable input becomes
// "no constraint" rather than an error.
package params

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"parliament-interests/internal/domain/members"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Int returns a non-negative integer or fallback.
func Int(value any, fallback int) int {
	parsed, ok := parseInt(Text(value))
	if !ok || parsed < 0 {
		return fallback
	}
	return int(parsed)
}

func Int64(value any) *int64 {
	parsed, ok := parseInt(Text(value))
	if !ok {
		return nil
	}
	return &parsed
}

// House accepts 1, 2, "commons" or "lords".
func House(value any) *int {
	text := strings.ToLower(Text(value))
	var house int
	switch text {
	case "commons":
		house = members.HouseCommons
	case "lords":
		house = members.HouseLords
	default:
		parsed, ok := parseInt(text)
		if !ok || !members.ValidHouse(int(parsed)) {
			return nil
		}
		house = int(parsed)
	}
	return &house
}

// Date reads a date or date-time and normalizes it to UTC.
func Date(value any) *time.Time {
	text := Text(value)
	if text == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, text)
		if err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}

func parseInt(text string) (int64, bool) {
	if text == "" {
		return 0, false
	}
	if parsed, err := strconv.ParseInt(text, 10, 64); err == nil {
		return parsed, true
	}
	// "3.0" from JSON-minded callers
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
