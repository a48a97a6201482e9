package main

import (
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikiextract"
	"github.com/dustin/go-wikiextract/store"
)

var wikidataCmd = &cobra.Command{
	Use:   "wikidata <dump.json[.bz2|.gz]>",
	Short: "Load knowledge records from a Wikidata JSON dump",
	Long: `Read the dump twice.  The first pass names every entity; the second
normalizes each entity with a sitelink into the wikidata table, resolving
entity-valued properties to names.`,
	Args: cobra.ExactArgs(1),
	RunE: runWikidata,
}

func init() {
	rootCmd.AddCommand(wikidataCmd)
}

// entityPass runs fn over a freshly opened reader of the dump.
func entityPass(path string, cfg wikiextract.Config, fn func(*wikiextract.EntityReader) error) error {
	f, err := wikiextract.OpenDump(path)
	if err != nil {
		return err
	}
	defer f.Close()
	er := wikiextract.NewEntityReader(f, cfg.Language, cfg.SiteKey())
	if err := fn(er); err != nil {
		return err
	}
	if er.Malformed > 0 {
		log.Printf("Skipped %s malformed lines of %s",
			humanize.Comma(er.Malformed), humanize.Comma(er.Lines))
	}
	return nil
}

func runWikidata(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sink, err := store.Open(cfg.Store, store.Knowledge)
	if err != nil {
		return err
	}
	defer sink.Close()

	started := time.Now()
	runID := wikiextract.NewRunID()
	log.Printf("Starting run %v over %v", runID, args[0])

	var index wikiextract.NameIndex
	err = entityPass(args[0], cfg, func(er *wikiextract.EntityReader) error {
		var err error
		index, _, err = wikiextract.BuildNameIndex(er,
			wikiextract.NewReporter("wikidata names", cfg.ReportEvery))
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("Named %s entities", humanize.Comma(int64(index.Len())))

	var stats wikiextract.Stats
	err = entityPass(args[0], cfg, func(er *wikiextract.EntityReader) error {
		var err error
		stats, err = wikiextract.NewNormalizer(index, sink).Run(er,
			wikiextract.NewReporter("wikidata", cfg.ReportEvery))
		return err
	})
	if err != nil {
		return err
	}

	stats.RunID = runID
	recordRun(sink, "wikidata", stats, started)
	return nil
}
