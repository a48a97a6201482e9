package wikiextract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNames = NewNameIndex(map[string]string{
	"P17":   "country",
	"P31":   "instance of",
	"P569":  "date of birth",
	"P625":  "coordinate location",
	"P1082": "population",
	"P1448": "official name",
	"P18":   "image",
	"Q5":    "human",
	"Q183":  "Germany",
	"Q515":  "city",
	"Q2":    "Earth",
	"Q405":  "Moon",
})

func dv(typ, value string) *DataValue {
	return &DataValue{Type: typ, Value: json.RawMessage(value)}
}

func strClaim(rank Rank, s string) Claim {
	b, _ := json.Marshal(s)
	return Claim{Rank: rank, Value: &DataValue{Type: "string", Value: b}}
}

func entClaim(rank Rank, id string) Claim {
	return Claim{Rank: rank, Value: dv("wikibase-entityid", `{"entity-type":"item","id":"`+id+`"}`)}
}

func marshalProps(t *testing.T, props map[string]PropertyValue) string {
	t.Helper()
	b, err := json.Marshal(props)
	require.NoError(t, err)
	return string(b)
}

func TestMapValue(t *testing.T) {
	tests := []struct {
		name string
		in   *DataValue
		exp  string
	}{
		{"string", dv("string", `"Sponge.jpg"`), `"Sponge.jpg"`},
		{"entity", dv("wikibase-entityid", `{"entity-type":"item","numeric-id":183,"id":"Q183"}`), `"Germany"`},
		{"entity numeric only", dv("wikibase-entityid", `{"entity-type":"item","numeric-id":515}`), `"city"`},
		{"property numeric only", dv("wikibase-entityid", `{"entity-type":"property","numeric-id":17}`), `"country"`},
		{"time zero day", dv("time", `{"time":"+2001-12-00T00:00:00Z","precision":10}`), `"2001-12-01T00:00:00"`},
		{"time zero month", dv("time", `{"time":"+1815-00-00T00:00:00Z","precision":9}`), `"1815-01-01T00:00:00"`},
		{"quantity", dv("quantity", `{"amount":"+3644826","unit":"1"}`), `3644826`},
		{"negative quantity", dv("quantity", `{"amount":"-12.5","unit":"1"}`), `-12.5`},
		{"monolingual", dv("monolingualtext", `{"text":"Berlin","language":"de"}`), `"Berlin"`},
		{"earth", dv("globecoordinate", `{"latitude":52,"longitude":13,"globe":"http://www.wikidata.org/entity/Q2"}`), `{"lat":52,"lng":13}`},
		{"moon", dv("globecoordinate", `{"latitude":1.5,"longitude":-2,"altitude":100,"globe":"http://www.wikidata.org/entity/Q405"}`),
			`{"lat":1.5,"lng":-2,"globe":"Q405","altitude":100}`},
		{"unknown globe", dv("globecoordinate", `{"latitude":1,"longitude":2,"globe":"http://www.wikidata.org/entity/Q111"}`), `{"lat":1,"lng":2}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, err := MapValue(*test.in, testNames)
			require.NoError(t, err)
			b, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, test.exp, string(b))
		})
	}
}

func TestMapValueDropped(t *testing.T) {
	tests := []struct {
		name string
		in   *DataValue
	}{
		{"empty string", dv("string", `""`)},
		{"bad time", dv("time", `{"time":"2001-12"}`)},
		{"bad quantity", dv("quantity", `{"amount":"lots"}`)},
		{"no position", dv("globecoordinate", `{"globe":"http://www.wikidata.org/entity/Q2"}`)},
		{"unsupported", dv("external-id", `"x"`)},
		{"bad json", dv("string", `{`)},
	}
	for _, test := range tests {
		_, err := MapValue(*test.in, testNames)
		assert.Error(t, err, test.name)
		assert.False(t, errors.Is(err, ErrUnresolvable), test.name)
	}

	_, err := MapValue(*dv("wikibase-entityid", `{"id":"Q999999"}`), testNames)
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestResolveRankPrecedence(t *testing.T) {
	claims := map[string][]Claim{
		"P1448": {
			strClaim(RankNormal, "a"),
			strClaim(RankNormal, "b"),
			strClaim(RankPreferred, "c"),
		},
	}
	props := ResolveProperties(claims, testNames)
	assert.JSONEq(t, `{"official name":"c"}`, marshalProps(t, props))
}

func TestResolveDeprecatedOnly(t *testing.T) {
	claims := map[string][]Claim{
		"P31": {entClaim(RankDeprecated, "Q515"), entClaim(RankDeprecated, "Q5")},
	}
	props := ResolveProperties(claims, testNames)
	assert.JSONEq(t, `{"instance of":["city","human"]}`, marshalProps(t, props))
}

func TestResolveEntityListsSorted(t *testing.T) {
	claims := map[string][]Claim{
		"P31": {entClaim(RankNormal, "Q515"), entClaim(RankNormal, "Q183"), entClaim(RankNormal, "Q5")},
	}
	props := ResolveProperties(claims, testNames)
	assert.JSONEq(t, `{"instance of":["Germany","city","human"]}`, marshalProps(t, props))
}

func TestResolveLastTypeWins(t *testing.T) {
	// A non-entity value throws away what the bucket collected so far.
	claims := map[string][]Claim{
		"P31": {
			entClaim(RankNormal, "Q515"),
			entClaim(RankNormal, "Q5"),
			strClaim(RankNormal, "free text"),
		},
		"P17": {
			strClaim(RankNormal, "old"),
			entClaim(RankNormal, "Q183"),
		},
	}
	props := ResolveProperties(claims, testNames)
	assert.JSONEq(t, `{"instance of":"free text","country":["old","Germany"]}`, marshalProps(t, props))
	assert.Equal(t, KindString, props["country"][0].Kind)
	assert.Equal(t, KindEntity, props["country"][1].Kind)
}

func TestResolveDropsUnresolvable(t *testing.T) {
	claims := map[string][]Claim{
		"P9999": {strClaim(RankNormal, "no such property")},
		"P17":   {entClaim(RankPreferred, "Q404404"), entClaim(RankNormal, "Q183")},
		"P18":   {{Rank: RankNormal}},
	}
	props := ResolveProperties(claims, testNames)
	// The preferred bucket is empty once its only value is dropped, so
	// normal wins.
	assert.JSONEq(t, `{"country":"Germany"}`, marshalProps(t, props))
}

func TestResolveScalarValues(t *testing.T) {
	// Only entity references accumulate; the last quantity wins.
	claims := map[string][]Claim{
		"P1082": {
			{Rank: RankNormal, Value: dv("quantity", `{"amount":"+20"}`)},
			{Rank: RankNormal, Value: dv("quantity", `{"amount":"+10"}`)},
		},
		"P625": {
			{Rank: RankNormal, Value: dv("globecoordinate", `{"latitude":52,"longitude":13}`)},
		},
	}
	props := ResolveProperties(claims, testNames)
	assert.JSONEq(t, `{"population":10,"coordinate location":{"lat":52,"lng":13}}`, marshalProps(t, props))
}

func TestParseRank(t *testing.T) {
	for in, exp := range map[string]Rank{
		"preferred":  RankPreferred,
		"normal":     RankNormal,
		"deprecated": RankDeprecated,
		"depricated": RankDeprecated,
	} {
		got, ok := ParseRank(in)
		assert.True(t, ok, in)
		assert.Equal(t, exp, got, in)
	}
	_, ok := ParseRank("best")
	assert.False(t, ok)
}
