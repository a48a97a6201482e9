package wikiextract

import (
	"fmt"
)

// A Sink is the keyed store records end up in.  Put must return an error
// wrapping ErrDuplicateKey when the key is already present.
type Sink interface {
	Put(key string, rec interface{}) error
	Exists(key string) (bool, error)
	Close() error
}

// Extractor turns RawArticles into ArticleRecords and stores them.  Its
// Handle method is the Scanner's Handler.
type Extractor struct {
	sink   Sink
	maxLen int
	seen   map[string]struct{}
}

// NewExtractor builds an extractor writing to sink.
func NewExtractor(cfg Config, sink Sink) *Extractor {
	maxLen := cfg.MaxFieldLen
	if maxLen <= 0 {
		maxLen = DefaultMaxFieldLen
	}
	return &Extractor{sink: sink, maxLen: maxLen, seen: map[string]struct{}{}}
}

// Process parses and extracts one article without storing it.
func (e *Extractor) Process(a RawArticle) (ArticleRecord, error) {
	tree, err := Parse(a.Text)
	if err != nil {
		return ArticleRecord{}, fmt.Errorf("parsing: %w", err)
	}
	rec, err := ExtractBounded(tree, a.Title, e.maxLen)
	if err != nil {
		return rec, err
	}
	rec.ID = a.ID
	rec.Text = a.Text
	return rec, nil
}

// Handle processes and stores one article.
func (e *Extractor) Handle(a RawArticle) error {
	rec, err := e.Process(a)
	if err != nil {
		return err
	}
	if _, dup := e.seen[rec.Title]; dup {
		return fmt.Errorf("%q: %w", rec.Title, ErrDuplicateKey)
	}
	e.seen[rec.Title] = struct{}{}
	if e.sink == nil {
		return nil
	}
	return e.sink.Put(rec.Title, &rec)
}
