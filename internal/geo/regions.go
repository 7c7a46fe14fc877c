package geo

import (
	"math"
	"strings"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Region maps a German postal code prefix band to a representative city.
type Region struct {
	Name   string
	Coord  Coordinate
	Prefix string
}

const earthRadiusKm = 6371.0

// roadFactor corrects beeline distances towards typical road distances.
const roadFactor = 1.25

// regions covers the German postal leading-digit zones plus the Osnabrück area,
// which gets its own entry because the workshop ships from there.
var regions = []Region{
	{Name: "Osnabrück", Coord: Coordinate{Lat: 52.2799, Lon: 8.0472}, Prefix: "49"},
	{Name: "Dresden", Coord: Coordinate{Lat: 51.0504, Lon: 13.7373}, Prefix: "0"},
	{Name: "Berlin", Coord: Coordinate{Lat: 52.5200, Lon: 13.4050}, Prefix: "1"},
	{Name: "Hamburg", Coord: Coordinate{Lat: 53.5511, Lon: 9.9937}, Prefix: "2"},
	{Name: "Hannover", Coord: Coordinate{Lat: 52.3759, Lon: 9.7320}, Prefix: "3"},
	{Name: "Düsseldorf", Coord: Coordinate{Lat: 51.2277, Lon: 6.7735}, Prefix: "4"},
	{Name: "Köln", Coord: Coordinate{Lat: 50.9375, Lon: 6.9603}, Prefix: "5"},
	{Name: "Frankfurt am Main", Coord: Coordinate{Lat: 50.1109, Lon: 8.6821}, Prefix: "6"},
	{Name: "Stuttgart", Coord: Coordinate{Lat: 48.7758, Lon: 9.1829}, Prefix: "7"},
	{Name: "München", Coord: Coordinate{Lat: 48.1351, Lon: 11.5820}, Prefix: "8"},
	{Name: "Nürnberg", Coord: Coordinate{Lat: 49.4521, Lon: 11.0767}, Prefix: "9"},
}

// exactCoords lists major-city postal codes resolved without a network call.
var exactCoords = map[string]Region{
	"10115": {Name: "Berlin", Coord: Coordinate{Lat: 52.5323, Lon: 13.3846}},
	"20095": {Name: "Hamburg", Coord: Coordinate{Lat: 53.5503, Lon: 10.0007}},
	"80331": {Name: "München", Coord: Coordinate{Lat: 48.1374, Lon: 11.5755}},
	"50667": {Name: "Köln", Coord: Coordinate{Lat: 50.9413, Lon: 6.9583}},
	"60311": {Name: "Frankfurt am Main", Coord: Coordinate{Lat: 50.1106, Lon: 8.6820}},
	"70173": {Name: "Stuttgart", Coord: Coordinate{Lat: 48.7784, Lon: 9.1806}},
	"40213": {Name: "Düsseldorf", Coord: Coordinate{Lat: 51.2254, Lon: 6.7724}},
	"04109": {Name: "Leipzig", Coord: Coordinate{Lat: 51.3397, Lon: 12.3731}},
	"44135": {Name: "Dortmund", Coord: Coordinate{Lat: 51.5142, Lon: 7.4684}},
	"45127": {Name: "Essen", Coord: Coordinate{Lat: 51.4582, Lon: 7.0158}},
	"28195": {Name: "Bremen", Coord: Coordinate{Lat: 53.0758, Lon: 8.8072}},
	"01067": {Name: "Dresden", Coord: Coordinate{Lat: 51.0562, Lon: 13.7259}},
	"30159": {Name: "Hannover", Coord: Coordinate{Lat: 52.3725, Lon: 9.7357}},
	"90402": {Name: "Nürnberg", Coord: Coordinate{Lat: 49.4480, Lon: 11.0786}},
	"49074": {Name: "Osnabrück", Coord: Coordinate{Lat: 52.2765, Lon: 8.0460}},
}

// RegionForPostalCode resolves the representative region for a German postal code.
// Exact city codes take precedence over the leading-digit zone.
func RegionForPostalCode(code string) (Region, bool) {
	code = strings.TrimSpace(code)
	if len(code) != 5 {
		return Region{}, false
	}
	if region, ok := exactCoords[code]; ok {
		return region, true
	}
	for _, region := range regions {
		if strings.HasPrefix(code, region.Prefix) {
			return region, true
		}
	}
	return Region{}, false
}

// HaversineKm computes the great-circle distance between two coordinates in kilometres.
func HaversineKm(a, b Coordinate) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// RoadDistanceKm estimates the driving distance between two coordinates by
// applying a road correction factor to the beeline distance.
func RoadDistanceKm(a, b Coordinate) float64 {
	return math.Round(HaversineKm(a, b) * roadFactor)
}
