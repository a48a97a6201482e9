package wikiextract

import (
	"bufio"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// A PageView is the aggregated view count of one title.
type PageView struct {
	Title string `json:"title"`
	Count int64  `json:"viewcount"`
}

// PageViewCounter sums hourly page-view logs ("lang title count size"
// per line) for one language.
type PageViewCounter struct {
	lang   string
	counts map[string]int64

	Lines   int64
	Skipped int64
}

// NewPageViewCounter counts views for the given language code.
func NewPageViewCounter(lang string) *PageViewCounter {
	return &PageViewCounter{lang: lang, counts: map[string]int64{}}
}

// ReadLog adds every matching line of one decompressed log.
func (c *PageViewCounter) ReadLog(r io.Reader) error {
	sc := bufio.NewScanner(r)
	prefix := c.lang + " "
	for sc.Scan() {
		c.Lines++
		line := sc.Text()
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if !c.add(strings.Split(line, " ")) {
			c.Skipped++
		}
	}
	return sc.Err()
}

func (c *PageViewCounter) add(bits []string) bool {
	if len(bits) != 4 || strings.Contains(bits[1], ":") {
		return false
	}
	// A stray '%' is part of the title, as in 100%_Pure.
	title, err := url.PathUnescape(bits[1])
	if err != nil {
		title = bits[1]
	}
	n, err := strconv.ParseInt(bits[2], 10, 64)
	if err != nil {
		return false
	}
	c.counts[strings.Replace(title, "_", " ", -1)] += n
	return true
}

// Len is the number of distinct titles seen.
func (c *PageViewCounter) Len() int { return len(c.counts) }

// Count is the total for one title.
func (c *PageViewCounter) Count(title string) int64 { return c.counts[title] }

// Top returns the n most viewed titles, all of them when n <= 0.
func (c *PageViewCounter) Top(n int) []PageView {
	rv := make([]PageView, 0, len(c.counts))
	for t, v := range c.counts {
		rv = append(rv, PageView{Title: t, Count: v})
	}
	sort.Slice(rv, func(i, j int) bool {
		if rv[i].Count != rv[j].Count {
			return rv[i].Count > rv[j].Count
		}
		return rv[i].Title < rv[j].Title
	})
	if n > 0 && n < len(rv) {
		rv = rv[:n]
	}
	return rv
}
