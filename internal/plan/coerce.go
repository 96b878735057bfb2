package plan

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Number coerces an arbitrary JSON value into a finite float64. Numeric
// strings are accepted; NaN, infinities and everything else report false.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}

		return v, true
	case float32:
		return Number(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		return Number(string(v))
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}

		return Number(parsed)
	default:
		return 0, false
	}
}

// Flag coerces an arbitrary JSON value into a boolean. True, 1, "1", "true"
// and "yes" (case-insensitive, trimmed) are true; everything else, including
// 0, "0", "false", null and absent, is false. This single permissive rule is
// applied everywhere flags are read.
func Flag(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			return true
		}

		return false
	default:
		if n, ok := Number(value); ok {
			return n == 1
		}

		return false
	}
}

// ID coerces a value into a trimmed non-empty string identifier. Numeric
// values are formatted without a fractional part when they carry none.
func ID(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)

		return trimmed, trimmed != ""
	case bool:
		return "", false
	default:
		n, ok := Number(value)
		if !ok {
			return "", false
		}
		if n == math.Trunc(n) {
			return strconv.FormatInt(int64(n), 10), true
		}

		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
}

// Instant parses a timestamp value into a UTC instant. Production logs store
// naive UTC strings, so a string without an explicit offset gets a "Z"
// appended before standard parsing. Invalid values report false instead of
// failing the caller.
func Instant(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), true
	case string:
		return parseInstant(v)
	default:
		return time.Time{}, false
	}
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
}

func parseInstant(raw string) (time.Time, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return time.Time{}, false
	}

	// Logs occasionally separate date and time with a space.
	if len(text) > 10 && text[10] == ' ' {
		text = text[:10] + "T" + text[11:]
	}

	if !hasExplicitOffset(text) {
		text += "Z"
	}

	for _, layout := range instantLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.UTC(), true
		}
	}

	return time.Time{}, false
}

// hasExplicitOffset reports whether the time portion of an ISO 8601 string
// carries a zone designator. Only characters past the date part are
// inspected so date dashes do not count as offsets.
func hasExplicitOffset(text string) bool {
	if len(text) <= 10 {
		return false
	}

	return strings.ContainsAny(text[10:], "Zz+-")
}
