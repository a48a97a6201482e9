package wikiextract

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxFieldLen bounds titles, infoboxes and categories.
const DefaultMaxFieldLen = 1024

// StoreConfig selects and addresses the record sink.
type StoreConfig struct {
	// Kind is one of memory, sqlite, mongo, couchbase, couchdb, elastic.
	Kind string `yaml:"kind" mapstructure:"kind"`
	// URL is a file path for sqlite, a server URL for the others.
	URL string `yaml:"url" mapstructure:"url"`
	// Database is the mongo database, couchbase bucket or elastic index
	// prefix.  Unused for sqlite and couchdb.
	Database string `yaml:"database" mapstructure:"database"`
}

// Config is everything the extraction core reads from the outside.
type Config struct {
	// Language tag for labels and descriptions, "en" by default.
	Language string `yaml:"language" mapstructure:"language"`
	// Site is the sitelink key; derived from Language when empty.
	Site string `yaml:"site" mapstructure:"site"`
	// MaxRecords caps accepted articles.  0 means unlimited.
	MaxRecords int `yaml:"max_records" mapstructure:"max_records"`
	// MaxFieldLen bounds title, infobox and category strings.
	MaxFieldLen int `yaml:"max_field_len" mapstructure:"max_field_len"`
	// ReportEvery is how often (in records) progress gets logged.
	ReportEvery int64 `yaml:"report_every" mapstructure:"report_every"`

	Store StoreConfig `yaml:"store" mapstructure:"store"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Language:    "en",
		MaxFieldLen: DefaultMaxFieldLen,
		ReportEvery: 10000,
		Store:       StoreConfig{Kind: "sqlite", URL: "wiki.db"},
	}
}

// SiteKey is the sitelink key of the configured encyclopedia, e.g. "enwiki".
func (c Config) SiteKey() string {
	if c.Site != "" {
		return c.Site
	}
	return c.Language + "wiki"
}

// Validate checks the values the core depends on.
func (c Config) Validate() error {
	switch {
	case c.Language == "":
		return errors.New("language must be set")
	case c.MaxRecords < 0:
		return errors.New("max_records must not be negative")
	case c.MaxFieldLen <= 0:
		return errors.New("max_field_len must be positive")
	}
	return nil
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
