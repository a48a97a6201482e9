package store

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dustin/go-couch"
	"github.com/dustin/httputil"
)

// CouchDB stores each table in its own database under the server url.
type CouchDB struct {
	db    couch.Database
	table string
}

// OpenCouchDB connects to the database named table on the server at url.
func OpenCouchDB(url, table string) (*CouchDB, error) {
	db, err := couch.Connect(strings.TrimSuffix(url, "/") + "/" + table)
	if err != nil {
		return nil, err
	}
	return &CouchDB{db: db, table: table}, nil
}

func (c *CouchDB) Put(key string, rec interface{}) error {
	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	doc["_id"] = escapeKey(key)
	_, _, err = c.db.Insert(doc)
	switch {
	case err == nil:
		return nil
	case httputil.IsHTTPStatus(err, http.StatusConflict):
		return duplicate(c.table, key)
	}
	return err
}

// Exists looks the document up by the same path Insert writes it to.
func (c *CouchDB) Exists(key string) (bool, error) {
	var doc map[string]interface{}
	err := c.db.Retrieve(url.QueryEscape(escapeKey(key)), &doc)
	switch {
	case err == nil:
		return true, nil
	case httputil.IsHTTPStatus(err, http.StatusNotFound):
		return false, nil
	}
	return false, err
}

func (c *CouchDB) Close() error { return nil }
