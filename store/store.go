// Package store holds the keyed sinks extracted records are written to.
//
// Every sink keys records by a string (the article title, the
// encyclopedia id of a knowledge record or the page-view title) and
// refuses to overwrite: a second Put for a key returns an error wrapping
// wikiextract.ErrDuplicateKey.
package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-wikiextract"
)

// Table names used by the tools.
const (
	Articles  = "wikipedia"
	Knowledge = "wikidata"
	PageViews = "wikistats"
)

// Open returns the sink described by cfg for one table.
func Open(cfg wikiextract.StoreConfig, table string) (wikiextract.Sink, error) {
	switch cfg.Kind {
	case "memory":
		return NewMemory(), nil
	case "sqlite", "":
		return OpenSQLite(cfg.URL, table)
	case "mongo":
		return OpenMongo(cfg.URL, orDefault(cfg.Database, "wp"), table)
	case "couchbase":
		return OpenCouchbase(cfg.URL, orDefault(cfg.Database, "default"), table)
	case "couchdb":
		return OpenCouchDB(cfg.URL, table)
	case "elastic":
		return OpenElastic(cfg.URL, orDefault(cfg.Database, "wiki")+"_"+table, table)
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}

func orDefault(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

func duplicate(table, key string) error {
	return fmt.Errorf("%s %q: %w", table, key, wikiextract.ErrDuplicateKey)
}

// toDoc turns a record into a generic document through its JSON form, so
// every backend stores the same field names.
func toDoc(rec interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	doc := map[string]interface{}{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// escapeKey makes a title usable as a document id in a URL path.
func escapeKey(in string) string {
	return strings.Replace(strings.Replace(in, "/", "%2f", -1),
		"+", "%2b", -1)
}
