package main

import (
	"io"
	"log"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/dustin/go-wikiextract"
	"github.com/dustin/go-wikiextract/store"
)

var wikipediaCmd = &cobra.Command{
	Use:   "wikipedia <dump.xml[.bz2]>",
	Short: "Load articles from a Wikipedia XML dump",
	Long: `Load every article of a pages-articles dump into the wikipedia table.

With --index the dump is read as a multistream file and its bzip2 streams
are decompressed in parallel.`,
	Args: cobra.ExactArgs(1),
	RunE: runWikipedia,
}

func init() {
	wikipediaCmd.Flags().String("index", "", "multistream index (enables parallel decompression)")
	wikipediaCmd.Flags().Int("workers", runtime.GOMAXPROCS(0), "decompression workers for multistream dumps")

	rootCmd.AddCommand(wikipediaCmd)
}

// openArticles opens a plain or multistream dump.
func openArticles(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	index, _ := cmd.Flags().GetString("index")
	if index == "" {
		return wikiextract.OpenDump(path)
	}
	workers, _ := cmd.Flags().GetInt("workers")
	return wikiextract.NewMultiStreamReader(cmd.Context(), index, path, workers)
}

func runWikipedia(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sink, err := store.Open(cfg.Store, store.Articles)
	if err != nil {
		return err
	}
	defer sink.Close()

	r, err := openArticles(cmd, args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	started := time.Now()
	runID := wikiextract.NewRunID()
	log.Printf("Starting run %v over %v", runID, args[0])

	ex := wikiextract.NewExtractor(cfg, sink)
	sc := wikiextract.NewScanner(ex.Handle, cfg.MaxRecords)
	sc.SetReporter(wikiextract.NewReporter("wikipedia", cfg.ReportEvery))
	if err := wikiextract.FeedScanner(cmd.Context(), r, sc); err != nil {
		return err
	}

	stats := sc.Stats()
	stats.RunID = runID
	recordRun(sink, "wikipedia", stats, started)
	return nil
}
