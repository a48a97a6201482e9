package wikiextract

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

const feedChunkSize = 64 * 1024

type dumpFile struct {
	io.Reader
	closers []io.Closer
}

func (d *dumpFile) Close() error {
	var err error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if cerr := d.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// OpenDump opens a dump file, decompressing it when the name ends in
// .bz2 or .gz.  Multistream files decode fine this way too, just
// serially.
func OpenDump(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var z io.ReadCloser
	switch {
	case strings.HasSuffix(path, ".bz2"):
		z, err = bzip2.NewReader(f, &bzip2.ReaderConfig{})
	case strings.HasSuffix(path, ".gz"):
		z, err = gzip.NewReader(f)
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return &dumpFile{Reader: z, closers: []io.Closer{f, z}}, nil
}

// FeedScanner pushes everything from r into s in fixed size chunks and
// closes it.  Reaching the record cap is a normal end.
func FeedScanner(ctx context.Context, r io.Reader, s *Scanner) error {
	buf := make([]byte, feedChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, rerr := r.Read(buf)
		if n > 0 {
			if err := s.Feed(buf[:n]); err != nil {
				if errors.Is(err, ErrStop) {
					return s.Close()
				}
				return err
			}
		}
		if rerr == io.EOF {
			return s.Close()
		}
		if rerr != nil {
			return rerr
		}
	}
}
