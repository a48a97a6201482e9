package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustin/go-wikiextract"
)

func TestMemory(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put("b", wikiextract.PageView{Title: "b", Count: 2}))
	require.NoError(t, m.Put("a", wikiextract.PageView{Title: "a", Count: 1}))
	assert.ErrorIs(t, m.Put("a", wikiextract.PageView{}), wikiextract.ErrDuplicateKey)

	ok, err := m.Exists("a")
	require.NoError(t, err)
	assert.True(t, ok)

	var pv wikiextract.PageView
	found, err := m.Get("b", &pv)
	require.NoError(t, err)
	require.True(t, found)
	assert.EqualValues(t, 2, pv.Count)

	found, err = m.Get("c", &pv)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, 2, m.Len())
	assert.NoError(t, m.Close())
}

func TestOpen(t *testing.T) {
	s, err := Open(wikiextract.StoreConfig{Kind: "memory"}, Articles)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(wikiextract.StoreConfig{Kind: "sqlite", URL: filepath.Join(t.TempDir(), "x.db")}, Articles)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(wikiextract.StoreConfig{Kind: "cassandra"}, Articles)
	assert.Error(t, err)
}

func TestToDoc(t *testing.T) {
	doc, err := toDoc(&wikiextract.ArticleRecord{
		Title: "X",
		Coord: &wikiextract.Coord{Lat: 1, Lon: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "X", doc["title"])
	assert.Equal(t, map[string]interface{}{"lat": 1.0, "lng": 2.0}, doc["coordinate"])
}

func TestEscapeKey(t *testing.T) {
	assert.Equal(t, "AC%2fDC", escapeKey("AC/DC"))
	assert.Equal(t, "C%2b%2b", escapeKey("C++"))
}
