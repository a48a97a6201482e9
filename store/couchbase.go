package store

import (
	"encoding/json"

	"github.com/couchbase/go-couchbase"
)

// Couchbase stores records in a bucket.  Tables share the bucket, so keys
// are prefixed with the table name.
type Couchbase struct {
	b      *couchbase.Bucket
	prefix string
}

// OpenCouchbase connects to the bucket in the default pool of the
// cluster at url.
func OpenCouchbase(url, bucket, table string) (*Couchbase, error) {
	b, err := couchbase.GetBucket(url, "default", bucket)
	if err != nil {
		return nil, err
	}
	return &Couchbase{b: b, prefix: table + "/"}, nil
}

func (c *Couchbase) Put(key string, rec interface{}) error {
	added, err := c.b.Add(c.prefix+key, 0, rec)
	if err != nil {
		return err
	}
	if !added {
		return duplicate(c.b.Name, key)
	}
	return nil
}

func (c *Couchbase) Exists(key string) (bool, error) {
	var doc json.RawMessage
	err := c.b.Get(c.prefix+key, &doc)
	switch {
	case err == nil:
		return true, nil
	case couchbase.IsKeyNoEntError(err):
		return false, nil
	}
	return false, err
}

func (c *Couchbase) Close() error {
	c.b.Close()
	return nil
}
