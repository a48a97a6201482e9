// Command wikiextract loads encyclopedia and knowledge-base dumps into a
// keyed store.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dustin/go-wikiextract"
)

var rootCmd = &cobra.Command{
	Use:   "wikiextract",
	Short: "Extract structured records from Wikipedia and Wikidata dumps",
	Long: `wikiextract streams Wikipedia XML dumps and Wikidata JSON dumps,
extracts templates, categories, infoboxes, coordinates and normalized
knowledge properties, and writes one record per article or entity into
the configured store (sqlite, mongo, couchbase, couchdb, elastic or
memory).`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	def := wikiextract.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./wikiextract.yaml or ~/.config/wikiextract/wikiextract.yaml)")
	pf.String("language", def.Language, "language of labels, descriptions and page views")
	pf.String("site", "", "sitelink key (default: <language>wiki)")
	pf.Int("max-records", def.MaxRecords, "stop after this many accepted records (0 for all)")
	pf.Int("max-field-len", def.MaxFieldLen, "reject articles with longer titles, infoboxes or categories")
	pf.Int64("report-every", def.ReportEvery, "log progress every this many records")
	pf.String("store", def.Store.Kind, "store kind: sqlite, mongo, couchbase, couchdb, elastic, memory")
	pf.String("store-url", def.Store.URL, "sqlite file or server URL of the store")
	pf.String("database", def.Store.Database, "mongo database, couchbase bucket or elastic index prefix")

	for key, flag := range map[string]string{
		"language":       "language",
		"site":           "site",
		"max_records":    "max-records",
		"max_field_len":  "max-field-len",
		"report_every":   "report-every",
		"store.kind":     "store",
		"store.url":      "store-url",
		"store.database": "database",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			log.Fatalf("Error binding flag %v: %v", flag, err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wikiextract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wikiextract"))
		}
	}

	viper.SetEnvPrefix("WIKIEXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Printf("Using config file: %v", viper.ConfigFileUsed())
	}
}

// loadConfig layers flags, environment and config file over the
// defaults.
func loadConfig() (wikiextract.Config, error) {
	cfg := wikiextract.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

type runRecorder interface {
	RecordRun(kind string, stats wikiextract.Stats, started, finished time.Time) error
}

// recordRun stores the run summary when the sink keeps one.
func recordRun(sink wikiextract.Sink, kind string, stats wikiextract.Stats, started time.Time) {
	rr, ok := sink.(runRecorder)
	if !ok {
		return
	}
	if err := rr.RecordRun(kind, stats, started, time.Now()); err != nil {
		log.Printf("Error recording run %v: %v", stats.RunID, err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
