package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var germanTitle = cases.Title(language.German)

// CityCase normalizes a city or place name to German title casing.
// Hyphenated compounds keep each segment capitalized (Castrop-Rauxel).
func CityCase(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	segments := strings.Split(name, "-")
	for i, segment := range segments {
		segments[i] = germanTitle.String(strings.ToLower(segment))
	}
	return strings.Join(segments, "-")
}
