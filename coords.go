package wikiextract

import (
	"math"
	"strconv"
	"strings"
)

var geoPrefixes = []string{"coor", "geolinks"}

var (
	latKeys = []string{"lat", "latitude"}
	lonKeys = []string{"long", "lon", "lng", "longitude"}
)

/*
ParseCoords parses geographical coordinates from the first geo template in
an article body, as specified in
http://en.wikipedia.org/wiki/Wikipedia:WikiProject_Geographical_coordinates
*/
func ParseCoords(text string) (Coord, error) {
	tree, err := Parse(text)
	if err != nil {
		return Coord{}, err
	}
	return TreeCoords(tree)
}

// TreeCoords returns the coordinate of the first {{coord}} or
// {{geolinks}} template that yields both a latitude and a longitude.
func TreeCoords(tree Wikicode) (Coord, error) {
	for _, t := range tree.Templates() {
		if !isGeoTemplate(t.Title()) || marksMissing(t) {
			continue
		}
		if c, ok := templateCoord(t); ok {
			return c, nil
		}
	}
	return Coord{}, ErrNoCoordFound
}

// {{coord missing}} and friends mark pages without data.
func isGeoTemplate(name string) bool {
	name = strings.ToLower(name)
	if strings.Contains(name, "missing") {
		return false
	}
	for _, p := range geoPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// marksMissing spots {{coord|missing|...}} and {{coord|missing=...}}.
func marksMissing(t *Template) bool {
	if _, ok := t.Param("missing"); ok {
		return true
	}
	for _, p := range t.Positional() {
		if strings.EqualFold(strings.TrimSpace(p.Value.Flatten()), "missing") {
			return true
		}
	}
	return false
}

func templateCoord(t *Template) (Coord, bool) {
	lat, latOK := namedFloat(t, latKeys)
	lon, lonOK := namedFloat(t, lonKeys)
	if latOK && lonOK {
		return validCoord(Coord{Lat: lat, Lon: lon})
	}

	var parts []string
	for _, p := range t.Positional() {
		parts = append(parts, strings.TrimSpace(p.Value.Flatten()))
	}
	if c, ok := parseDecimal(parts); ok {
		return validCoord(c)
	}
	if c, ok := parseSexagesimal(parts); ok {
		return validCoord(c)
	}
	return Coord{}, false
}

func namedFloat(t *Template, keys []string) (float64, bool) {
	for _, k := range keys {
		if p, ok := t.Param(k); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(p.Value.Flatten()), 64)
			if err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func isHemisphere(s string) bool {
	switch strings.ToUpper(s) {
	case "N", "S", "E", "W":
		return true
	}
	return false
}

// parseDecimal accepts exactly two numbers and no hemisphere letters.
// Other parameters (region:NL, display=title, ...) are ignored.
func parseDecimal(parts []string) (Coord, bool) {
	var nums []float64
	for _, part := range parts {
		if isHemisphere(part) {
			return Coord{}, false
		}
		if f, err := strconv.ParseFloat(part, 64); err == nil {
			nums = append(nums, f)
		}
	}
	if len(nums) != 2 {
		return Coord{}, false
	}
	return Coord{Lat: nums[0], Lon: nums[1]}, true
}

// parseSexagesimal accumulates degrees, minutes and seconds until a
// hemisphere letter assigns the value to latitude (N/S) or longitude
// (E/W).
func parseSexagesimal(parts []string) (Coord, bool) {
	var rv Coord
	var haveLat, haveLon bool
	acc, scale := 0.0, 1.0
	for _, part := range parts {
		if f, err := strconv.ParseFloat(part, 64); err == nil {
			acc += f * scale
			scale /= 60
			continue
		}
		switch strings.ToUpper(part) {
		case "N", "S":
			if part == "S" || part == "s" {
				acc = -acc
			}
			rv.Lat, haveLat = acc, true
		case "E", "W":
			if part == "W" || part == "w" {
				acc = -acc
			}
			rv.Lon, haveLon = acc, true
		default:
			continue
		}
		acc, scale = 0, 1
	}
	return rv, haveLat && haveLon
}

func validCoord(c Coord) (Coord, bool) {
	if math.Abs(c.Lat) > 90 || math.Abs(c.Lon) > 180 {
		return Coord{}, false
	}
	return c, true
}
