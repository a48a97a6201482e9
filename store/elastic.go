package store

import (
	"sync"

	"github.com/dustin/go-elasticsearch"
)

const elasticBatch = 1000

// Elastic bulk loads records into a search index.  The bulk API cannot
// refuse existing ids, so duplicates are detected against the keys this
// sink has written.
type Elastic struct {
	index, typ string

	mu   sync.Mutex
	seen map[string]struct{}

	ch   chan *elasticsearch.UpdateInstruction
	done chan struct{}
}

// OpenElastic starts a bulk loader against the server at url.
func OpenElastic(url, index, typ string) (*Elastic, error) {
	e := &Elastic{
		index: index,
		typ:   typ,
		seen:  map[string]struct{}{},
		ch:    make(chan *elasticsearch.UpdateInstruction, elasticBatch),
		done:  make(chan struct{}),
	}
	go e.load(elasticsearch.ElasticSearch{URL: url})
	return e, nil
}

func (e *Elastic) load(es elasticsearch.ElasticSearch) {
	defer close(e.done)
	bulkLoader := es.Bulk()
	counter := 0
	for ui := range e.ch {
		counter++
		if counter > elasticBatch {
			bulkLoader.SendBatch()
			counter = 0
		}
		bulkLoader.Update(ui)
	}
	bulkLoader.Quit()
}

func (e *Elastic) Put(key string, rec interface{}) error {
	e.mu.Lock()
	if _, ok := e.seen[key]; ok {
		e.mu.Unlock()
		return duplicate(e.index, key)
	}
	e.seen[key] = struct{}{}
	e.mu.Unlock()

	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	e.ch <- &elasticsearch.UpdateInstruction{
		Id:    key,
		Index: e.index,
		Type:  e.typ,
		Body:  doc,
	}
	return nil
}

func (e *Elastic) Exists(key string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.seen[key]
	return ok, nil
}

// Close flushes the loader and waits for it to finish.
func (e *Elastic) Close() error {
	close(e.ch)
	<-e.done
	return nil
}
