package main

import (
	"log"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikiextract"
)

var traverseCmd = &cobra.Command{
	Use:   "traverse <dump.xml[.bz2]>",
	Short: "Scan and extract a Wikipedia dump without storing anything",
	Long: `Run the article pipeline over a dump and report how many articles
were accepted, skipped, carried coordinates or were redirects.  Useful to
check a dump before loading it.`,
	Args: cobra.ExactArgs(1),
	RunE: runTraverse,
}

func init() {
	traverseCmd.Flags().String("index", "", "multistream index (enables parallel decompression)")
	traverseCmd.Flags().Int("workers", 4, "decompression workers for multistream dumps")
	traverseCmd.Flags().Bool("verbose", false, "log every coordinate found")

	rootCmd.AddCommand(traverseCmd)
}

func runTraverse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	r, err := openArticles(cmd, args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	var geo, redirects int64
	ex := wikiextract.NewExtractor(cfg, nil)
	handle := func(a wikiextract.RawArticle) error {
		rec, err := ex.Process(a)
		if err != nil {
			return err
		}
		if rec.Coord != nil {
			geo++
			if verbose {
				log.Printf("Found geo data in %q: %+v", rec.Title, *rec.Coord)
			}
		}
		if rec.Redirect != "" {
			redirects++
		}
		return nil
	}

	sc := wikiextract.NewScanner(handle, cfg.MaxRecords)
	sc.SetReporter(wikiextract.NewReporter("traverse", cfg.ReportEvery))
	if err := wikiextract.FeedScanner(cmd.Context(), r, sc); err != nil {
		return err
	}
	log.Printf("%s with coordinates, %s redirects",
		humanize.Comma(geo), humanize.Comma(redirects))
	return nil
}
