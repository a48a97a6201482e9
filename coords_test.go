package wikiextract

import (
	"errors"
	"math"
	"testing"
)

type testinput struct {
	input string
	lon   float64
	lat   float64
}

var testdata = []testinput{
	{
		"{{Geolinks-US-streetscale|34.1996350|-118.1746540}}",
		-118.1746540,
		34.1996350,
	},
	{
		"{{Geolinks-AUS-suburbscale|long=146.5333|lat=-38.1833}}",
		146.5333,
		-38.1833,
	},
	{
		"{{geolinks-US-streetscale|37.2750|-81.1240|region:US_type:_scale:300000}}",
		-81.1240,
		37.2750,
	},
	{
		"{{Geolinks-US-streetscale|39.118474|-77.235947|Kentlands (Gaithersburg, MD)}}",
		-77.235947,
		39.118474,
	},
	{
		"{{Geolinks-US-streetscale|40.94759700 |-72.89820700}}",
		-72.89820700,
		40.94759700,
	},
	{
		"{{coord|38|42|N|9|11|W|source:eswiki_type:country|display=title}}",
		-9.183333,
		38.7,
	},
	{
		"{{Coord|31|35|type:country|display=title}}",
		35,
		31,
	},
	{
		"{{coord|52|22|N|4|54|E|region:NL|display=inline,title}}",
		4.9,
		52.366667,
	},
	{
		"{{coord|33|51|35.9|S|151|12|40|E}}",
		151.211111,
		-33.859972,
	},
}

func assertEpsilon(t *testing.T, input, field string, expected, got float64) {
	if math.Abs(got-expected) > 0.00001 {
		t.Fatalf("Expected %v for %v of %v, got %v",
			expected, field, input, got)
	}
}

func testOne(t *testing.T, ti testinput, input string) {
	geo, err := ParseCoords(input)
	if err != nil {
		t.Fatalf("Error on %v: %v", input, err)
	}
	assertEpsilon(t, input, "lon", ti.lon, geo.Lon)
	assertEpsilon(t, input, "lat", ti.lat, geo.Lat)
}

func TestGeoSimple(t *testing.T) {
	for _, ti := range testdata {
		testOne(t, ti, ti.input)
	}
}

func TestGeoWithGarbage(t *testing.T) {
	for _, ti := range testdata {
		input := " some random garbage " + ti.input + " and stuff"
		testOne(t, ti, input)
	}
}

func TestGeoMultiline(t *testing.T) {
	for _, ti := range testdata {
		input := " some random garbage\n\nnewlines\n" + ti.input + " and stuff"
		testOne(t, ti, input)
	}
}

func TestGeoIdempotent(t *testing.T) {
	for _, ti := range testdata {
		a, errA := ParseCoords(ti.input)
		b, errB := ParseCoords(ti.input)
		if a != b || errA != errB {
			t.Fatalf("Different results for %v: %v/%v vs %v/%v",
				ti.input, a, errA, b, errB)
		}
	}
}

func TestGeoNotFound(t *testing.T) {
	tests := []string{
		"no templates at all",
		"{{coord missing|Germany}}",
		"{{coord|missing|10|20}}",
		"{{Coord|Missing|10|N|20|E}}",
		"{{coord|10|20|missing=yes}}",
		"{{coord|1|2|3}}",
		"{{coord|100|0}}",
		"<!-- {{coord|52|13}} -->",
		"{{cite web|title=x}}",
	}
	for _, input := range tests {
		_, err := ParseCoords(input)
		if !errors.Is(err, ErrNoCoordFound) {
			t.Fatalf("Expected no coord for %q, got %v", input, err)
		}
	}
}

func TestGeoFirstWins(t *testing.T) {
	input := "{{coord|1|2|3}} {{coord|missing|5|6}} {{coord|10|N|20|E}} {{coord|30|40}}"
	c, err := ParseCoords(input)
	if err != nil {
		t.Fatalf("Error on %v: %v", input, err)
	}
	assertEpsilon(t, input, "lat", 10, c.Lat)
	assertEpsilon(t, input, "lon", 20, c.Lon)
}
