package wikiextract

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/dsnet/compress/bzip2"
	"golang.org/x/sync/errgroup"
)

type streamChunk struct {
	offset, end int64
	out         chan chunkResult
}

type chunkResult struct {
	data []byte
	err  error
}

// MultiStreamReader reads a multistream dump, decompressing its bzip2
// streams in parallel but returning their bytes in file order.  Feed it
// to a single Scanner.
type MultiStreamReader struct {
	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
	f      *os.File
	order  chan chan chunkResult
	cur    []byte
	err    error
}

// NewMultiStreamReader starts numWorkers decompressors over datafn, using
// the stream offsets from the bzip2 compressed index in indexfn.
func NewMultiStreamReader(ctx context.Context, indexfn, datafn string, numWorkers int) (*MultiStreamReader, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	f, err := os.Open(datafn)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	rv := &MultiStreamReader{
		ctx:    ctx,
		cancel: cancel,
		g:      g,
		f:      f,
		order:  make(chan chan chunkResult, numWorkers*4),
	}

	jobs := make(chan streamChunk, numWorkers)
	g.Go(func() error {
		defer close(jobs)
		defer close(rv.order)
		return rv.readIndex(ctx, indexfn, st.Size(), jobs)
	})
	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			for c := range jobs {
				data, err := rv.decompress(c)
				c.out <- chunkResult{data, err}
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	return rv, nil
}

// readIndex queues every stream: the siteinfo header before the first
// indexed stream, each indexed stream, and the tail up to size.
func (m *MultiStreamReader) readIndex(ctx context.Context, indexfn string, size int64, jobs chan<- streamChunk) error {
	r, err := os.Open(indexfn)
	if err != nil {
		return err
	}
	defer r.Close()

	bz, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	isr, err := NewIndexSummaryReader(bz)
	if err != nil {
		return err
	}

	queue := func(offset, end int64) error {
		c := streamChunk{offset: offset, end: end, out: make(chan chunkResult, 1)}
		select {
		case m.order <- c.out:
		case <-ctx.Done():
			return ctx.Err()
		}
		select {
		case jobs <- c:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}

	prev := int64(0)
	for {
		offset, _, err := isr.Next()
		if err != nil && err != io.EOF {
			return err
		}
		if offset > prev {
			if qerr := queue(prev, offset); qerr != nil {
				return qerr
			}
			prev = offset
		}
		if err == io.EOF {
			break
		}
	}
	return queue(prev, size)
}

func (m *MultiStreamReader) decompress(c streamChunk) ([]byte, error) {
	bz, err := bzip2.NewReader(io.NewSectionReader(m.f, c.offset, c.end-c.offset), &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()
	return io.ReadAll(bz)
}

func (m *MultiStreamReader) Read(p []byte) (int, error) {
	for len(m.cur) == 0 {
		if m.err != nil {
			return 0, m.err
		}
		m.cur, m.err = m.next()
	}
	n := copy(p, m.cur)
	m.cur = m.cur[n:]
	return n, nil
}

// next waits for the next stream in file order.
func (m *MultiStreamReader) next() ([]byte, error) {
	var out chan chunkResult
	var ok bool
	select {
	case out, ok = <-m.order:
	case <-m.ctx.Done():
		return nil, m.failure()
	}
	if !ok {
		if err := m.g.Wait(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	select {
	case res := <-out:
		return res.data, res.err
	case <-m.ctx.Done():
		return nil, m.failure()
	}
}

// failure is whatever cancelled the workers.
func (m *MultiStreamReader) failure() error {
	if err := m.g.Wait(); err != nil {
		return err
	}
	return m.ctx.Err()
}

// Close stops the workers and closes the data file.
func (m *MultiStreamReader) Close() error {
	m.cancel()
	err := m.g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
