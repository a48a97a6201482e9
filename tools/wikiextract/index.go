package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dustin/go-wikiextract"
)

var indexCmd = &cobra.Command{
	Use:   "index <index.txt[.bz2]>",
	Short: "Print the entries of a multistream index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().Bool("summary", false, "print one line per stream: offset and page count")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	r, err := wikiextract.OpenDump(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	out := cmd.OutOrStdout()
	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		isr, err := wikiextract.NewIndexSummaryReader(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for {
			offset, count, err := isr.Next()
			if err != nil && err != io.EOF {
				return err
			}
			if count > 0 {
				fmt.Fprintf(out, "%v\t%v\n", offset, count)
			}
			if err == io.EOF {
				return nil
			}
		}
	}

	ir := wikiextract.NewIndexReader(r)
	for {
		e, err := ir.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, e.String())
	}
}
