// Package output handles where serialized triples end up: files, stdout,
// gzip streams, and destination/format sanity checks.
package output

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/German-BioImaging/omero-rdf/errors"
)

// Open resolves an export destination to a writer. An empty destination or
// "-" means stdout; a ".gz" suffix enables on-the-fly gzip compression.
func Open(dest string) (io.WriteCloser, error) {
	if dest == "" || dest == "-" {
		return nopCloser{os.Stdout}, nil
	}

	f, err := os.Create(dest)
	if err != nil {
		return nil, errors.Wrap(err, "output", "Open", "creating "+dest)
	}
	if strings.HasSuffix(dest, ".gz") {
		return &gzipCloser{gz: gzip.NewWriter(f), file: f}, nil
	}
	return f, nil
}

// nopCloser keeps stdout open when the export finishes.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// gzipCloser flushes the compressor before closing the underlying file.
type gzipCloser struct {
	gz   *gzip.Writer
	file *os.File
}

func (g *gzipCloser) Write(p []byte) (int, error) { return g.gz.Write(p) }

func (g *gzipCloser) Close() error {
	if err := g.gz.Close(); err != nil {
		g.file.Close()
		return errors.Wrap(err, "output", "Close", "flushing gzip stream")
	}
	return g.file.Close()
}
