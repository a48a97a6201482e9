package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikiextract"
	"github.com/dustin/go-wikiextract/store"
)

var pageviewsCmd = &cobra.Command{
	Use:   "pageviews <dir|file>...",
	Short: "Sum hourly page-view logs into the wikistats table",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPageviews,
}

func init() {
	pageviewsCmd.Flags().Int("top", 0, "print the n most viewed titles instead of storing")

	rootCmd.AddCommand(pageviewsCmd)
}

// logFiles expands directories into the log files they hold.
func logFiles(args []string) ([]string, error) {
	var rv []string
	for _, a := range args {
		st, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			rv = append(rv, a)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(a, "pagecounts-*"))
		if err != nil {
			return nil, err
		}
		rv = append(rv, matches...)
	}
	return rv, nil
}

func readLog(c *wikiextract.PageViewCounter, path string) error {
	r, err := wikiextract.OpenDump(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return c.ReadLog(r)
}

func runPageviews(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	files, err := logFiles(args)
	if err != nil {
		return err
	}

	started := time.Now()
	c := wikiextract.NewPageViewCounter(cfg.Language)
	for _, fn := range files {
		if err := readLog(c, fn); err != nil {
			return fmt.Errorf("reading %v: %w", fn, err)
		}
		log.Printf("Read %v, %s titles so far", fn, humanize.Comma(int64(c.Len())))
	}
	if c.Skipped > 0 {
		log.Printf("Skipped %s malformed lines", humanize.Comma(c.Skipped))
	}

	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		for _, pv := range c.Top(top) {
			fmt.Printf("%s\t%s\n", humanize.Comma(pv.Count), pv.Title)
		}
		return nil
	}

	sink, err := store.Open(cfg.Store, store.PageViews)
	if err != nil {
		return err
	}
	defer sink.Close()

	stats := wikiextract.Stats{RunID: wikiextract.NewRunID()}
	report := wikiextract.NewReporter("pageviews", cfg.ReportEvery)
	for _, pv := range c.Top(0) {
		stats.Processed++
		err := sink.Put(pv.Title, pv)
		switch {
		case err == nil:
			stats.Accepted++
		case errors.Is(err, wikiextract.ErrDuplicateKey):
			stats.Duplicates++
		default:
			return err
		}
		report.Tick(stats.Processed)
	}
	report.Done(stats)
	recordRun(sink, "pageviews", stats, started)
	return nil
}
