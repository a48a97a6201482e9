package wikiextract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errBadIndexLine = errors.New("bad index record")

// An IndexEntry is one article in a multistream dump index.
type IndexEntry struct {
	StreamOffset int64
	PageID       uint64
	Title        string
}

func (i IndexEntry) String() string {
	return fmt.Sprintf("%v:%v:%v", i.StreamOffset, i.PageID, i.Title)
}

// An IndexReader reads "offset:id:title" lines of a multistream index.
type IndexReader struct {
	r          *bufio.Scanner
	base       int64
	prevOffset int64
}

// NewIndexReader gets a multistream index reader.
func NewIndexReader(r io.Reader) *IndexReader {
	return &IndexReader{r: bufio.NewScanner(r)}
}

// Next gets the next entry from the index stream.
//
// Offsets only grow; old indexes wrote them as signed 32 bit numbers, so
// a smaller offset means the counter wrapped.
func (ir *IndexReader) Next() (IndexEntry, error) {
	if !ir.r.Scan() {
		if err := ir.r.Err(); err != nil {
			return IndexEntry{}, err
		}
		return IndexEntry{}, io.EOF
	}
	line := ir.r.Text()
	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 {
		return IndexEntry{}, fmt.Errorf("%q: %w", line, errBadIndexLine)
	}
	offset, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return IndexEntry{}, err
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return IndexEntry{}, err
	}
	if offset < ir.prevOffset {
		ir.base += 1 << 32
	}
	ir.prevOffset = offset

	return IndexEntry{
		StreamOffset: offset + ir.base,
		PageID:       id,
		Title:        parts[2],
	}, nil
}

// IndexSummaryReader groups index entries by stream: where each stream
// starts and how many pages it holds.
type IndexSummaryReader struct {
	index      *IndexReader
	prevOffset int64
	count      int
}

// NewIndexSummaryReader gets a new IndexSummaryReader from the given
// stream of index lines.
func NewIndexSummaryReader(r io.Reader) (*IndexSummaryReader, error) {
	rv := &IndexSummaryReader{index: NewIndexReader(r)}
	first, err := rv.index.Next()
	if err != nil {
		return nil, err
	}
	rv.prevOffset = first.StreamOffset
	rv.count = 1
	return rv, nil
}

// Next gets the next offset and count from the index summary reader.
//
// The last stream comes back together with io.EOF.
func (isr *IndexSummaryReader) Next() (offset int64, count int, err error) {
	for {
		e, err := isr.index.Next()
		if err != nil {
			offset, count = isr.prevOffset, isr.count
			isr.prevOffset, isr.count = 0, 0
			return offset, count, err
		}
		if e.StreamOffset != isr.prevOffset {
			offset, count = isr.prevOffset, isr.count
			isr.prevOffset, isr.count = e.StreamOffset, 1
			return offset, count, nil
		}
		isr.count++
	}
}
