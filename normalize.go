package wikiextract

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// An EntitySource yields entities until io.EOF.  *EntityReader is one.
type EntitySource interface {
	Next() (KnowledgeEntity, error)
}

// BuildNameIndex is the first pass over a knowledge dump.  Each entity
// is named by its sitelink title, else its label; entities with neither
// are counted as skipped.
func BuildNameIndex(src EntitySource, report *Reporter) (NameIndex, Stats, error) {
	names := map[string]string{}
	var stats Stats
	for {
		e, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return NameIndex{}, stats, err
		}
		stats.Processed++
		report.Tick(stats.Processed)

		name := e.Title
		if name == "" {
			name = e.Label
		}
		if name == "" {
			stats.Skipped++
			continue
		}
		names[e.ID] = name
		stats.Accepted++
	}
	report.Done(stats)
	return NewNameIndex(names), stats, nil
}

// Normalizer is the second pass: it turns entities into
// KnowledgeRecords using a complete NameIndex.
type Normalizer struct {
	index NameIndex
	sink  Sink
	seen  map[string]struct{}
	stats Stats
}

// NewNormalizer creates a second-pass normalizer.  sink may be nil.
func NewNormalizer(index NameIndex, sink Sink) *Normalizer {
	return &Normalizer{index: index, sink: sink, seen: map[string]struct{}{}}
}

// Normalize builds the record for one entity.  Entities without both a
// sitelink title and a label have no record.
func (n *Normalizer) Normalize(e KnowledgeEntity) (KnowledgeRecord, bool) {
	if e.Title == "" || e.Label == "" {
		return KnowledgeRecord{}, false
	}
	return KnowledgeRecord{
		WikipediaID: e.Title,
		Title:       e.Label,
		KnowledgeID: e.ID,
		Description: e.Description,
		Properties:  ResolveProperties(e.Claims, n.index),
	}, true
}

// Handle normalizes and stores one entity.  Duplicate wikipedia ids
// return ErrDuplicateKey.
func (n *Normalizer) Handle(e KnowledgeEntity) error {
	n.stats.Processed++
	rec, ok := n.Normalize(e)
	if !ok {
		n.stats.Skipped++
		return nil
	}
	if _, dup := n.seen[rec.WikipediaID]; dup {
		n.stats.Duplicates++
		log.Printf("Duplicate wikipedia id %q on %s", rec.WikipediaID, rec.KnowledgeID)
		return fmt.Errorf("%q: %w", rec.WikipediaID, ErrDuplicateKey)
	}
	n.seen[rec.WikipediaID] = struct{}{}
	if n.sink != nil {
		if err := n.sink.Put(rec.WikipediaID, &rec); err != nil {
			if errors.Is(err, ErrDuplicateKey) {
				n.stats.Duplicates++
			}
			return err
		}
	}
	n.stats.Accepted++
	return nil
}

// Run consumes the whole stream.  Duplicates are counted and dropped;
// only stream and sink failures end the pass early.
func (n *Normalizer) Run(src EntitySource, report *Reporter) (Stats, error) {
	for {
		e, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n.stats, err
		}
		if err := n.Handle(e); err != nil && !errors.Is(err, ErrDuplicateKey) {
			return n.stats, err
		}
		report.Tick(n.stats.Processed)
	}
	report.Done(n.stats)
	return n.stats, nil
}

// Stats returns counts so far.
func (n *Normalizer) Stats() Stats { return n.stats }
