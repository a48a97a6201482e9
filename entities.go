package wikiextract

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log"
)

const maxEntityLine = 64 * 1024 * 1024

// jsonMap decodes an object, and also the empty array the dumps use for
// empty objects.
type jsonMap[V any] map[string]V

func (m *jsonMap[V]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("[]")) {
		*m = nil
		return nil
	}
	var rv map[string]V
	if err := json.Unmarshal(data, &rv); err != nil {
		return err
	}
	*m = rv
	return nil
}

type langValue struct {
	Value string `json:"value"`
}

type sitelink struct {
	Title string `json:"title"`
}

type rawClaim struct {
	Rank     string `json:"rank"`
	Mainsnak *struct {
		Datavalue *DataValue `json:"datavalue"`
	} `json:"mainsnak"`
}

type rawEntity struct {
	ID           string              `json:"id"`
	Labels       jsonMap[langValue]  `json:"labels"`
	Descriptions jsonMap[langValue]  `json:"descriptions"`
	Sitelinks    jsonMap[sitelink]   `json:"sitelinks"`
	Claims       jsonMap[[]rawClaim] `json:"claims"`
}

// An EntityReader reads knowledge-base entities from a JSON-lines dump:
// one object per line, optionally comma terminated, inside an outer
// array whose brackets sit on lines of their own.
type EntityReader struct {
	r          *bufio.Scanner
	lang, site string

	// Lines counts every line read, Malformed the ones skipped because
	// they did not decode.
	Lines     int64
	Malformed int64
}

// NewEntityReader gets an entity reader keeping labels and descriptions
// in lang and the sitelink for site.
func NewEntityReader(r io.Reader, lang, site string) *EntityReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), maxEntityLine)
	return &EntityReader{r: sc, lang: lang, site: site}
}

// Next gets the next entity, or io.EOF at the end of the stream.
func (er *EntityReader) Next() (KnowledgeEntity, error) {
	for er.r.Scan() {
		er.Lines++
		line := bytes.TrimSpace(er.r.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		line = bytes.TrimSuffix(line, []byte(","))
		var raw rawEntity
		if err := json.Unmarshal(line, &raw); err != nil {
			er.Malformed++
			log.Printf("Skipping entity on line %d: %v", er.Lines, err)
			continue
		}
		return er.entity(&raw), nil
	}
	if err := er.r.Err(); err != nil {
		return KnowledgeEntity{}, err
	}
	return KnowledgeEntity{}, io.EOF
}

func (er *EntityReader) entity(raw *rawEntity) KnowledgeEntity {
	rv := KnowledgeEntity{
		ID:          raw.ID,
		Label:       raw.Labels[er.lang].Value,
		Description: raw.Descriptions[er.lang].Value,
		Title:       raw.Sitelinks[er.site].Title,
		Claims:      make(map[string][]Claim, len(raw.Claims)),
	}
	for pid, claims := range raw.Claims {
		for _, c := range claims {
			rank, ok := ParseRank(c.Rank)
			if !ok {
				continue
			}
			claim := Claim{Rank: rank}
			if c.Mainsnak != nil {
				claim.Value = c.Mainsnak.Datavalue
			}
			rv.Claims[pid] = append(rv.Claims[pid], claim)
		}
	}
	return rv
}
