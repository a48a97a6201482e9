package wikiextract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "enwiki", cfg.SiteKey())
	assert.Equal(t, 1024, cfg.MaxFieldLen)
	assert.Zero(t, cfg.MaxRecords)

	cfg.Site = "simplewiki"
	assert.Equal(t, "simplewiki", cfg.SiteKey())
}

func TestLoadConfig(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "wikiextract.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(`
language: de
max_records: 500
store:
  kind: mongo
  url: localhost
  database: wp
`), 0644))

	cfg, err := LoadConfig(fn)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "dewiki", cfg.SiteKey())
	assert.Equal(t, 500, cfg.MaxRecords)
	assert.Equal(t, DefaultMaxFieldLen, cfg.MaxFieldLen, "unset values keep their defaults")
	assert.Equal(t, StoreConfig{Kind: "mongo", URL: "localhost", Database: "wp"}, cfg.Store)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"negative": "max_records: -1\n",
		"empty":    "language: \"\"\n",
		"bound":    "max_field_len: 0\n",
		"syntax":   "language: [unclosed\n",
	} {
		fn := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(fn, []byte(body), 0644))
		_, err := LoadConfig(fn)
		assert.Error(t, err, name)
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestStatsString(t *testing.T) {
	s := Stats{Processed: 1234567, Accepted: 1000, Skipped: 3, Duplicates: 0}
	assert.Equal(t, "processed 1,234,567, accepted 1,000, skipped 3, duplicates 0", s.String())
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.Equal(t, strings.ToUpper(a), a)
}

func TestReporterNil(t *testing.T) {
	var r *Reporter
	r.Tick(10)
	r.Done(Stats{})

	r = NewReporter("test", 0)
	r.Tick(10)
	r.Done(Stats{Processed: 1})
}
