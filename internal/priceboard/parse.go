package priceboard

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// ParseNumber extracts a numeric value from a board cell. The formatted
// text is tried first, then the raw structured value, which may be a JSON
// number or a JSON-quoted string depending on the column type.
func ParseNumber(col ColumnValue) (float64, bool) {
	if value, ok := parseNumericText(col.Text); ok {
		return value, true
	}
	return parseRawValue(col.RawValue)
}

func parseRawValue(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return 0, false
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return parseNumericText(trimmed)
	}
	switch v := decoded.(type) {
	case float64:
		return v, true
	case string:
		return parseNumericText(v)
	default:
		return 0, false
	}
}

// parseNumericText parses board-formatted numbers. Currency and unit
// suffixes are stripped ("89,00 €", "1,5 h/m²", "25 %"), the decimal comma
// is normalized to a dot, and thousands dots are dropped.
func parseNumericText(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch {
		case unicode.IsDigit(r) || r == '-' || r == '+' || r == ',' || r == '.':
			b.WriteRune(r)
		default:
			// First non-numeric rune starts the unit suffix.
			if b.Len() > 0 {
				return parseCleaned(b.String())
			}
		}
	}
	return parseCleaned(b.String())
}

func parseCleaned(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		// Comma is the decimal separator; any literal dots group
		// thousands: "1.250,50" means 1250.50.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
		if strings.Contains(s, ",") {
			return 0, false
		}
	} else if isDotGrouped(s) {
		// No comma and every dot heads a three-digit group: "1.250" on a
		// German board means 1250, not 1.25.
		s = strings.ReplaceAll(s, ".", "")
	} else if strings.Count(s, ".") > 1 {
		return 0, false
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func isDotGrouped(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) < 2 {
		return false
	}
	for i, group := range groups {
		if i > 0 && len(group) != 3 {
			return false
		}
		for _, r := range group {
			if !unicode.IsDigit(r) && !(i == 0 && (r == '-' || r == '+')) {
				return false
			}
		}
	}
	return true
}
