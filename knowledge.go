package wikiextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Rank is a claim's confidence tier.
type Rank int

// Ranks in priority order.
const (
	RankPreferred Rank = iota
	RankNormal
	RankDeprecated
	numRanks
)

// ParseRank maps a dump rank string to a Rank.  The misspelling
// "depricated" is accepted as deprecated.
func ParseRank(s string) (Rank, bool) {
	switch s {
	case "preferred":
		return RankPreferred, true
	case "normal":
		return RankNormal, true
	case "deprecated", "depricated":
		return RankDeprecated, true
	}
	return 0, false
}

// A DataValue is a claim's typed value as found in the dump.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// A Claim is one asserted property value.  Value is nil for
// novalue/somevalue snaks.
type Claim struct {
	Rank  Rank
	Value *DataValue
}

// A KnowledgeEntity is one knowledge-base item or property, reduced to
// the configured language and site.
type KnowledgeEntity struct {
	ID          string
	Title       string
	Label       string
	Description string
	Claims      map[string][]Claim
}

// ValueKind orders resolved values of different types.
type ValueKind int

// Value kinds; the order is the sort order of mixed lists.
const (
	KindNumber ValueKind = iota
	KindGeo
	KindString
	KindTime
	KindEntity
)

// GeoValue is a resolved globe coordinate.
type GeoValue struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Globe    string   `json:"globe,omitempty"`
	Altitude *float64 `json:"altitude,omitempty"`
}

// A Value is a resolved claim value.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Geo  *GeoValue
}

// MarshalJSON writes numbers as numbers, coordinates as objects and
// everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindGeo:
		return json.Marshal(v.Geo)
	}
	return json.Marshal(v.Str)
}

func (v Value) less(o Value) bool {
	if v.Kind != o.Kind {
		return v.Kind < o.Kind
	}
	switch v.Kind {
	case KindNumber:
		return v.Num < o.Num
	case KindGeo:
		if v.Geo.Lat != o.Geo.Lat {
			return v.Geo.Lat < o.Geo.Lat
		}
		return v.Geo.Lng < o.Geo.Lng
	}
	return v.Str < o.Str
}

// PropertyValue is a single value or a sorted list of values.
type PropertyValue []Value

// MarshalJSON writes a lone value as a scalar.
func (p PropertyValue) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(p[0])
	}
	return json.Marshal([]Value(p))
}

// A KnowledgeRecord is the normalized output for one entity.
type KnowledgeRecord struct {
	WikipediaID string                   `json:"wikipedia_id"`
	Title       string                   `json:"title"`
	KnowledgeID string                   `json:"knowledge_id"`
	Description string                   `json:"description,omitempty"`
	Properties  map[string]PropertyValue `json:"properties"`
}

// NameIndex maps entity ids to display names.  It is built once by
// BuildNameIndex and only read afterwards.
type NameIndex struct {
	names map[string]string
}

// NewNameIndex wraps an existing id to name map.
func NewNameIndex(names map[string]string) NameIndex {
	return NameIndex{names: names}
}

// Lookup resolves an entity id.
func (n NameIndex) Lookup(id string) (string, bool) {
	name, ok := n.names[id]
	return name, ok
}

// Len is the number of named entities.
func (n NameIndex) Len() int { return len(n.names) }

const defaultGlobe = "Q2"

var timeRE = regexp.MustCompile(`^([+-]?\d+)-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})Z$`)

var errUnsupportedValue = errors.New("unsupported value")

// MapValue resolves a dump value.  Entity references missing from the
// index give ErrUnresolvable; values that cannot be mapped give some
// other error.  Either way the caller drops the value.
func MapValue(dv DataValue, idx NameIndex) (Value, error) {
	switch dv.Type {
	case "string":
		var s string
		if err := json.Unmarshal(dv.Value, &s); err != nil {
			return Value{}, err
		}
		return stringValue(KindString, s)

	case "wikibase-entityid":
		var ref struct {
			ID         string `json:"id"`
			EntityType string `json:"entity-type"`
			NumericID  int64  `json:"numeric-id"`
		}
		if err := json.Unmarshal(dv.Value, &ref); err != nil {
			return Value{}, err
		}
		id := ref.ID
		if id == "" {
			id = entityID(ref.EntityType, ref.NumericID)
		}
		name, ok := idx.Lookup(id)
		if !ok {
			return Value{}, fmt.Errorf("%s: %w", id, ErrUnresolvable)
		}
		return stringValue(KindEntity, name)

	case "time":
		var t struct {
			Time string `json:"time"`
		}
		if err := json.Unmarshal(dv.Value, &t); err != nil {
			return Value{}, err
		}
		s, err := mapTime(t.Time)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTime, Str: s}, nil

	case "quantity":
		var q struct {
			Amount string `json:"amount"`
		}
		if err := json.Unmarshal(dv.Value, &q); err != nil {
			return Value{}, err
		}
		f, err := strconv.ParseFloat(q.Amount, 64)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindNumber, Num: f}, nil

	case "monolingualtext":
		var m struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(dv.Value, &m); err != nil {
			return Value{}, err
		}
		return stringValue(KindString, m.Text)

	case "globecoordinate":
		return mapGlobe(dv.Value, idx)
	}
	return Value{}, fmt.Errorf("%q: %w", dv.Type, errUnsupportedValue)
}

func stringValue(kind ValueKind, s string) (Value, error) {
	if s == "" {
		return Value{}, fmt.Errorf("empty string: %w", errUnsupportedValue)
	}
	return Value{Kind: kind, Str: s}, nil
}

func entityID(entityType string, n int64) string {
	prefix := "Q"
	if entityType == "property" {
		prefix = "P"
	}
	return prefix + strconv.FormatInt(n, 10)
}

// mapTime turns "+2001-12-00T00:00:00Z" into "2001-12-01T00:00:00".
// Zero months and days become 1.
func mapTime(s string) (string, error) {
	m := timeRE.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("time %q: %w", s, errUnsupportedValue)
	}
	var parts [6]int64
	for i := range parts {
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return "", err
		}
		parts[i] = n
	}
	if parts[1] == 0 {
		parts[1] = 1
	}
	if parts[2] == 0 {
		parts[2] = 1
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		parts[0], parts[1], parts[2], parts[3], parts[4], parts[5]), nil
}

func mapGlobe(raw json.RawMessage, idx NameIndex) (Value, error) {
	var g struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Altitude  *float64 `json:"altitude"`
		Globe     string   `json:"globe"`
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return Value{}, err
	}
	if g.Latitude == nil && g.Longitude == nil {
		return Value{}, fmt.Errorf("coordinate without position: %w", errUnsupportedValue)
	}
	geo := &GeoValue{}
	if g.Latitude != nil {
		geo.Lat = *g.Latitude
	}
	if g.Longitude != nil {
		geo.Lng = *g.Longitude
	}
	globe := g.Globe[strings.LastIndexByte(g.Globe, '/')+1:]
	if _, ok := idx.Lookup(globe); ok && globe != defaultGlobe {
		geo.Globe = globe
	}
	if g.Altitude != nil && *g.Altitude != 0 {
		geo.Altitude = g.Altitude
	}
	return Value{Kind: KindGeo, Geo: geo}, nil
}

// ResolveProperties collapses an entity's claims into one value (or a
// sorted list) per resolvable property.  Only the best non-empty rank
// contributes.  Within a rank a non-entity value replaces whatever was
// collected before it.
func ResolveProperties(claims map[string][]Claim, idx NameIndex) map[string]PropertyValue {
	rv := map[string]PropertyValue{}
	for pid, cs := range claims {
		name, ok := idx.Lookup(pid)
		if !ok {
			continue
		}
		var buckets [numRanks][]Value
		for _, c := range cs {
			if c.Value == nil || c.Rank < 0 || c.Rank >= numRanks {
				continue
			}
			v, err := MapValue(*c.Value, idx)
			if err != nil {
				continue
			}
			if v.Kind != KindEntity {
				buckets[c.Rank] = nil
			}
			buckets[c.Rank] = append(buckets[c.Rank], v)
		}
		for _, vals := range buckets {
			if len(vals) == 0 {
				continue
			}
			sort.SliceStable(vals, func(i, j int) bool { return vals[i].less(vals[j]) })
			rv[name] = vals
			break
		}
	}
	return rv
}
