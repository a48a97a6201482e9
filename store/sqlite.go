package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dustin/go-wikiextract"
)

const sqliteBatch = 1000

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS wikipedia (
	title TEXT PRIMARY KEY,
	numeric_id INTEGER,
	infobox TEXT,
	redirect TEXT,
	doc TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS wikipedia_infobox ON wikipedia(infobox);

CREATE TABLE IF NOT EXISTS wikipedia_templates (
	title TEXT NOT NULL,
	value TEXT NOT NULL,
	UNIQUE(title, value)
);
CREATE INDEX IF NOT EXISTS wikipedia_templates_value ON wikipedia_templates(value);

CREATE TABLE IF NOT EXISTS wikipedia_categories (
	title TEXT NOT NULL,
	value TEXT NOT NULL,
	UNIQUE(title, value)
);
CREATE INDEX IF NOT EXISTS wikipedia_categories_value ON wikipedia_categories(value);

CREATE TABLE IF NOT EXISTS wikipedia_general (
	title TEXT NOT NULL,
	value TEXT NOT NULL,
	UNIQUE(title, value)
);
CREATE INDEX IF NOT EXISTS wikipedia_general_value ON wikipedia_general(value);

CREATE TABLE IF NOT EXISTS wikidata (
	wikipedia_id TEXT PRIMARY KEY,
	wikidata_id TEXT NOT NULL,
	title TEXT,
	doc TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS wikidata_wikidata_id ON wikidata(wikidata_id);

CREATE TABLE IF NOT EXISTS wikistats (
	title TEXT PRIMARY KEY,
	viewcount INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS wikistats_viewcount ON wikistats(viewcount);

CREATE TABLE IF NOT EXISTS records (
	tbl TEXT NOT NULL,
	key TEXT NOT NULL,
	doc TEXT NOT NULL,
	PRIMARY KEY(tbl, key)
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	started TEXT NOT NULL,
	finished TEXT NOT NULL,
	processed INTEGER NOT NULL,
	accepted INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	duplicates INTEGER NOT NULL
);
`

// Projection tables of the article table, filled from ArticleRecord.
var projections = []struct {
	table string
	field func(*wikiextract.ArticleRecord) []string
}{
	{"wikipedia_templates", func(r *wikiextract.ArticleRecord) []string { return r.Templates }},
	{"wikipedia_categories", func(r *wikiextract.ArticleRecord) []string { return r.Categories }},
	{"wikipedia_general", func(r *wikiextract.ArticleRecord) []string { return r.Generalized }},
}

// SQLite is a sink backed by a SQLite file.  Articles, knowledge records
// and page views get typed tables; anything else lands in the generic
// records table.  Writes are committed in batches.
type SQLite struct {
	db      *sql.DB
	table   string
	tx      *sql.Tx
	pending int
}

// OpenSQLite opens (creating when needed) the database at path with WAL
// mode enabled.
func OpenSQLite(path, table string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps the batch transaction and reads consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db, table: table}, nil
}

func (s *SQLite) begin() (*sql.Tx, error) {
	if s.tx == nil {
		tx, err := s.db.Begin()
		if err != nil {
			return nil, err
		}
		s.tx = tx
	}
	return s.tx, nil
}

// Flush commits any pending writes.
func (s *SQLite) Flush() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx, s.pending = nil, 0
	return err
}

func (s *SQLite) Put(key string, rec interface{}) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tx, err := s.begin()
	if err != nil {
		return err
	}

	switch r := rec.(type) {
	case wikiextract.ArticleRecord:
		rec = &r
	case wikiextract.KnowledgeRecord:
		rec = &r
	case wikiextract.PageView:
		rec = &r
	}

	var res sql.Result
	switch r := rec.(type) {
	case *wikiextract.ArticleRecord:
		res, err = s.putArticle(tx, key, r, doc)
	case *wikiextract.KnowledgeRecord:
		res, err = tx.Exec(`INSERT OR IGNORE INTO wikidata(wikipedia_id, wikidata_id, title, doc) VALUES(?, ?, ?, ?)`,
			key, r.KnowledgeID, r.Title, string(doc))
	case *wikiextract.PageView:
		res, err = tx.Exec(`INSERT OR IGNORE INTO wikistats(title, viewcount) VALUES(?, ?)`, key, r.Count)
	default:
		res, err = tx.Exec(`INSERT OR IGNORE INTO records(tbl, key, doc) VALUES(?, ?, ?)`, s.table, key, string(doc))
	}
	if err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return duplicate(s.table, key)
	}

	s.pending++
	if s.pending >= sqliteBatch {
		return s.Flush()
	}
	return nil
}

func (s *SQLite) putArticle(tx *sql.Tx, key string, r *wikiextract.ArticleRecord, doc []byte) (sql.Result, error) {
	res, err := tx.Exec(`INSERT OR IGNORE INTO wikipedia(title, numeric_id, infobox, redirect, doc) VALUES(?, ?, ?, ?, ?)`,
		key, int64(r.ID), r.Infobox, r.Redirect, string(doc))
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return res, err
	}
	for _, p := range projections {
		for _, v := range p.field(r) {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO `+p.table+`(title, value) VALUES(?, ?)`, key, v); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (s *SQLite) keyQuery() (string, []interface{}) {
	switch s.table {
	case Articles:
		return `SELECT COUNT(*) FROM wikipedia WHERE title = ?`, nil
	case Knowledge:
		return `SELECT COUNT(*) FROM wikidata WHERE wikipedia_id = ?`, nil
	case PageViews:
		return `SELECT COUNT(*) FROM wikistats WHERE title = ?`, nil
	}
	return `SELECT COUNT(*) FROM records WHERE key = ? AND tbl = ?`, []interface{}{s.table}
}

func (s *SQLite) query(q string, args ...interface{}) (*sql.Rows, error) {
	if s.tx != nil {
		return s.tx.Query(q, args...)
	}
	return s.db.Query(q, args...)
}

func (s *SQLite) queryRow(q string, args ...interface{}) *sql.Row {
	if s.tx != nil {
		return s.tx.QueryRow(q, args...)
	}
	return s.db.QueryRow(q, args...)
}

func (s *SQLite) Exists(key string) (bool, error) {
	q, extra := s.keyQuery()
	var n int
	if err := s.queryRow(q, append([]interface{}{key}, extra...)...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get decodes the stored document for key into rv.  Page views have no
// document; use ViewCount for them.
func (s *SQLite) Get(key string, rv interface{}) (bool, error) {
	var q string
	var args []interface{}
	switch s.table {
	case Articles:
		q, args = `SELECT doc FROM wikipedia WHERE title = ?`, []interface{}{key}
	case Knowledge:
		q, args = `SELECT doc FROM wikidata WHERE wikipedia_id = ?`, []interface{}{key}
	default:
		q, args = `SELECT doc FROM records WHERE key = ? AND tbl = ?`, []interface{}{key, s.table}
	}
	var doc string
	err := s.queryRow(q, args...).Scan(&doc)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(doc), rv)
}

// ViewCount is the stored count of one page-view title.
func (s *SQLite) ViewCount(title string) (int64, error) {
	var n int64
	err := s.queryRow(`SELECT viewcount FROM wikistats WHERE title = ?`, title).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}

// TitlesWith lists the articles whose projection (templates, categories
// or general) holds value.
func (s *SQLite) TitlesWith(projection, value string) ([]string, error) {
	table := ""
	for _, p := range projections {
		if p.table == "wikipedia_"+projection {
			table = p.table
		}
	}
	if table == "" {
		return nil, fmt.Errorf("unknown projection %q", projection)
	}
	rows, err := s.query(`SELECT title FROM `+table+` WHERE value = ? ORDER BY title`, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rv []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		rv = append(rv, t)
	}
	return rv, rows.Err()
}

// RecordRun stores the final counts of one extraction run.
func (s *SQLite) RecordRun(kind string, stats wikiextract.Stats, started, finished time.Time) error {
	if err := s.Flush(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO runs(id, kind, started, finished, processed, accepted, skipped, duplicates)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.RunID, kind, started.UTC().Format(time.RFC3339), finished.UTC().Format(time.RFC3339),
		stats.Processed, stats.Accepted, stats.Skipped, stats.Duplicates)
	return err
}

func (s *SQLite) Close() error {
	err := s.Flush()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}
