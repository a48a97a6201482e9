// Package wikiextract turns wikipedia and wikidata dumps into
// structured records.
//
// The dumps are available from the wikimedia group here:
//	http://dumps.wikimedia.org/
//
// Page dumps are fed through a Scanner in arbitrary chunks, each page
// is parsed into a Wikicode tree and an Extractor reduces it to an
// ArticleRecord.  Entity dumps take two passes: BuildNameIndex records
// every label, then a Normalizer resolves property and entity ids
// against it and emits KnowledgeRecords.
//
// Records are written to a Sink.  The store subpackage provides sinks
// backed by sqlite, mongodb, couchbase, couchdb and elasticsearch, and
// tools/wikiextract drives the whole thing from the command line.
package wikiextract
