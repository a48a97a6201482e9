package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustin/go-wikiextract"
)

func openTestSQLite(t *testing.T, table string) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "wiki.db"), table)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteArticles(t *testing.T) {
	s := openTestSQLite(t, Articles)

	rec := &wikiextract.ArticleRecord{
		Title:       "Paris",
		ID:          22989,
		Infobox:     "settlement",
		Templates:   []string{"coord", "infobox settlement"},
		Categories:  []string{"capitals in europe", "cities in france"},
		Generalized: []string{"capitals", "cities"},
		Coord:       &wikiextract.Coord{Lat: 48.8567, Lon: 2.3508},
	}
	require.NoError(t, s.Put(rec.Title, rec))

	ok, err := s.Exists("Paris")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists("Lyon")
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.Put(rec.Title, rec)
	assert.ErrorIs(t, err, wikiextract.ErrDuplicateKey)

	var got wikiextract.ArticleRecord
	found, err := s.Get("Paris", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, *rec, got)

	titles, err := s.TitlesWith("general", "cities")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, titles)

	titles, err = s.TitlesWith("templates", "coord")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, titles)

	_, err = s.TitlesWith("nonsense", "x")
	assert.Error(t, err)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wiki.db")
	s, err := OpenSQLite(path, Articles)
	require.NoError(t, err)
	require.NoError(t, s.Put("A", wikiextract.ArticleRecord{Title: "A"}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, Articles)
	require.NoError(t, err)
	defer s.Close()
	ok, err := s.Exists("A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.ErrorIs(t, s.Put("A", wikiextract.ArticleRecord{Title: "A"}),
		wikiextract.ErrDuplicateKey)
}

func TestSQLiteKnowledge(t *testing.T) {
	s := openTestSQLite(t, Knowledge)

	rec := wikiextract.KnowledgeRecord{
		WikipediaID: "Berlin",
		Title:       "Berlin",
		KnowledgeID: "Q64",
		Description: "capital of Germany",
	}
	require.NoError(t, s.Put(rec.WikipediaID, &rec))
	assert.ErrorIs(t, s.Put(rec.WikipediaID, &rec), wikiextract.ErrDuplicateKey)

	var got wikiextract.KnowledgeRecord
	found, err := s.Get("Berlin", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Q64", got.KnowledgeID)
	assert.Equal(t, "capital of Germany", got.Description)
}

func TestSQLitePageViews(t *testing.T) {
	s := openTestSQLite(t, PageViews)

	require.NoError(t, s.Put("Main Page", wikiextract.PageView{Title: "Main Page", Count: 42}))
	n, err := s.ViewCount("Main Page")
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	n, err = s.ViewCount("Nothing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteGenericTable(t *testing.T) {
	s := openTestSQLite(t, "misc")

	require.NoError(t, s.Put("k", map[string]int{"a": 1}))
	assert.ErrorIs(t, s.Put("k", map[string]int{"a": 2}), wikiextract.ErrDuplicateKey)

	var got map[string]int
	found, err := s.Get("k", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, map[string]int{"a": 1}, got)
}

func TestSQLiteRecordRun(t *testing.T) {
	s := openTestSQLite(t, Articles)
	require.NoError(t, s.Put("A", wikiextract.ArticleRecord{Title: "A"}))

	start := time.Now()
	stats := wikiextract.Stats{RunID: wikiextract.NewRunID(), Processed: 3, Accepted: 1, Skipped: 1, Duplicates: 1}
	require.NoError(t, s.RecordRun("wikipedia", stats, start, start.Add(time.Second)))

	var processed int64
	require.NoError(t, s.db.QueryRow(`SELECT processed FROM runs WHERE id = ?`, stats.RunID).Scan(&processed))
	assert.EqualValues(t, 3, processed)
}
