package store

import (
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// Secondary indexes per collection.  The key is the document _id, which
// mongo already keeps unique.
var mongoIndexes = map[string][]string{
	Articles:  {"infobox"},
	Knowledge: {"wikidata_id"},
	PageViews: {"viewcount"},
}

// Mongo stores records in one collection, keyed by _id.
type Mongo struct {
	session *mgo.Session
	c       *mgo.Collection
}

// OpenMongo dials url and ensures the indexes of the collection.
func OpenMongo(url, dbname, collection string) (*Mongo, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, err
	}
	c := session.DB(dbname).C(collection)
	for _, field := range mongoIndexes[collection] {
		err := c.EnsureIndex(mgo.Index{
			Key:        []string{field},
			Background: true,
			Sparse:     true,
		})
		if err != nil {
			session.Close()
			return nil, err
		}
	}
	return &Mongo{session: session, c: c}, nil
}

func (m *Mongo) Put(key string, rec interface{}) error {
	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	d := bson.M(doc)
	d["_id"] = key
	err = m.c.Insert(d)
	if mgo.IsDup(err) {
		return duplicate(m.c.Name, key)
	}
	return err
}

func (m *Mongo) Exists(key string) (bool, error) {
	n, err := m.c.FindId(key).Count()
	return n > 0, err
}

func (m *Mongo) Close() error {
	m.session.Close()
	return nil
}
