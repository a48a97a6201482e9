package wikiextract

import (
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
)

// Stats are the aggregate counts of one extraction run.  They are for
// observability only.
type Stats struct {
	RunID      string
	Processed  int64
	Accepted   int64
	Skipped    int64
	Duplicates int64
}

func (s Stats) String() string {
	return fmt.Sprintf("processed %s, accepted %s, skipped %s, duplicates %s",
		humanize.Comma(s.Processed), humanize.Comma(s.Accepted),
		humanize.Comma(s.Skipped), humanize.Comma(s.Duplicates))
}

// NewRunID returns a sortable identifier for an extraction run.
func NewRunID() string {
	return ulid.Make().String()
}

// A Reporter logs progress every N ticks.
type Reporter struct {
	Label string
	Every int64

	start time.Time
	prev  time.Time
}

// NewReporter starts the clock on a progress reporter.  every <= 0
// disables logging.
func NewReporter(label string, every int64) *Reporter {
	now := time.Now()
	return &Reporter{Label: label, Every: every, start: now, prev: now}
}

// Tick is called with the running total after each record.
func (r *Reporter) Tick(total int64) {
	if r == nil || r.Every <= 0 || total%r.Every != 0 {
		return
	}
	now := time.Now()
	d := now.Sub(r.prev)
	log.Printf("%s: processed %s total (%.2f/s)",
		r.Label, humanize.Comma(total), float64(r.Every)/d.Seconds())
	r.prev = now
}

// Done logs the final tally.
func (r *Reporter) Done(s Stats) {
	if r == nil {
		return
	}
	d := time.Since(r.start)
	log.Printf("%s: ended after %v: %v (%.2f/s)",
		r.Label, d, s, float64(s.Processed)/d.Seconds())
}
