package geo

import (
	"strings"
	"unicode"

	"github.com/lichtwerk/api/internal/platform/textutil"
)

// majorCities are well-known German city names matched verbatim before any
// heuristic cleaning is attempted.
var majorCities = map[string]struct{}{
	"berlin": {}, "hamburg": {}, "münchen": {}, "köln": {}, "frankfurt am main": {},
	"stuttgart": {}, "düsseldorf": {}, "leipzig": {}, "dortmund": {}, "essen": {},
	"bremen": {}, "dresden": {}, "hannover": {}, "nürnberg": {}, "duisburg": {},
	"bochum": {}, "wuppertal": {}, "bielefeld": {}, "bonn": {}, "münster": {},
	"karlsruhe": {}, "mannheim": {}, "augsburg": {}, "wiesbaden": {}, "gelsenkirchen": {},
	"mönchengladbach": {}, "braunschweig": {}, "chemnitz": {}, "kiel": {}, "aachen": {},
	"halle": {}, "magdeburg": {}, "freiburg im breisgau": {}, "krefeld": {}, "lübeck": {},
	"oberhausen": {}, "erfurt": {}, "mainz": {}, "rostock": {}, "kassel": {},
	"hagen": {}, "hamm": {}, "saarbrücken": {}, "mülheim an der ruhr": {}, "potsdam": {},
	"ludwigshafen am rhein": {}, "oldenburg": {}, "leverkusen": {}, "osnabrück": {}, "solingen": {},
}

// administrative labels that never name the delivery town itself.
var adminKeywords = map[string]struct{}{
	"deutschland":            {},
	"germany":                {},
	"baden-württemberg":      {},
	"bayern":                 {},
	"brandenburg":            {},
	"hessen":                 {},
	"mecklenburg-vorpommern": {},
	"niedersachsen":          {},
	"nordrhein-westfalen":    {},
	"rheinland-pfalz":        {},
	"saarland":               {},
	"sachsen":                {},
	"sachsen-anhalt":         {},
	"schleswig-holstein":     {},
	"thüringen":              {},
}

var adminPrefixes = []string{
	"landkreis ",
	"kreis ",
	"region ",
	"regierungsbezirk ",
	"bezirk ",
	"verwaltungsgemeinschaft ",
	"samtgemeinde ",
	"amt ",
}

var directionalSuffixes = map[string]struct{}{
	"nord": {}, "süd": {}, "ost": {}, "west": {},
	"mitte": {}, "north": {}, "south": {}, "east": {},
}

// CityFromDisplayName extracts a plausible town name from a comma-separated
// reverse-geocoded address. Known major cities win outright; otherwise segments
// that are postal codes, country or state names, or administrative units are
// skipped and the first remaining segment of at least three characters is
// returned with any trailing directional suffix stripped. If nothing qualifies
// the first segment is returned verbatim.
func CityFromDisplayName(displayName string) string {
	segments := strings.Split(displayName, ",")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	for _, segment := range segments {
		if _, ok := majorCities[strings.ToLower(segment)]; ok {
			return textutil.CityCase(segment)
		}
	}

	for _, segment := range segments {
		if segment == "" || isNumericSegment(segment) {
			continue
		}
		lower := strings.ToLower(segment)
		if _, ok := adminKeywords[lower]; ok {
			continue
		}
		if hasAdminPrefix(lower) {
			continue
		}
		cleaned := stripDirectionalSuffix(segment)
		if len([]rune(cleaned)) >= 3 {
			return textutil.CityCase(cleaned)
		}
	}

	if len(segments) > 0 {
		return segments[0]
	}
	return ""
}

func stripDirectionalSuffix(segment string) string {
	idx := strings.LastIndex(segment, "-")
	if idx <= 0 {
		return segment
	}
	suffix := strings.ToLower(strings.TrimSpace(segment[idx+1:]))
	if _, ok := directionalSuffixes[suffix]; ok {
		return strings.TrimSpace(segment[:idx])
	}
	return segment
}

func hasAdminPrefix(lower string) bool {
	for _, prefix := range adminPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func isNumericSegment(segment string) bool {
	hasDigit := false
	for _, r := range segment {
		if unicode.IsDigit(r) {
			hasDigit = true
			continue
		}
		if r != ' ' && r != '-' && r != '/' {
			return false
		}
	}
	return hasDigit
}
