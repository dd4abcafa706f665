// Package gzchunk includes a Writer that compresses every Write call into
// its own complete gzip member.  The members are appended to the
// underlying writer, so the output is a valid multi-member gzip file
// whose payload equals the in-order concatenation of all the Write
// payloads.  Any gzip reader that supports multi-member files (gzip(1),
// zcat, compress/gzip, klauspost/compress/gzip) reads it back as one
// stream.
//
// The chunk boundaries are chosen by the caller, typically one chunk per
// flush of an output buffer:
//   var out bytes.Buffer
//   w, err := NewWriter(&out, gzip.DefaultCompression)
//   _, err = w.Write([]byte("@r1\nACGT\n+\nIIII\n"))  // member 1
//   _, err = w.Write([]byte("@r2\nTTGA\n+\nIIII\n"))  // member 2
//   err = w.Close()
package gzchunk

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// compressFactory is an interface for creating a gzip writer for one
// chunk.  The factory keeps its own pointer to the gzip.Writer so that
// it can use Reset() instead of creating a new writer for each chunk.
type compressFactory interface {
	create(io.Writer) (io.WriteCloser, error)
}

type gzipFactory struct {
	level int
	gzw   *gzip.Writer
}

func (c *gzipFactory) create(w io.Writer) (io.WriteCloser, error) {
	if c.gzw == nil {
		var err error
		c.gzw, err = gzip.NewWriterLevel(w, c.level)
		if err != nil {
			return nil, err
		}
	} else {
		c.gzw.Reset(w)
	}
	return c.gzw, nil
}

// Writer compresses each Write into an independent gzip member.  Writer
// does not buffer: a chunk is compressed and written out before Write
// returns.
type Writer struct {
	factory    compressFactory
	w          io.Writer
	compressed bytes.Buffer
	coffset    uint64 // number of compressed bytes written to w
	nchunks    int
	closed     bool
}

// NewWriter returns a new chunked gzip writer with the given compression
// level.  Returns nil, error if the level is invalid.
func NewWriter(w io.Writer, level int) (*Writer, error) {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, fmt.Errorf("gzchunk: invalid compression level %d", level)
	}
	return &Writer{
		factory: &gzipFactory{level: level},
		w:       w,
	}, nil
}

// Write compresses buf as one gzip member and writes it to the underlying
// writer.  Returns the number of bytes consumed from buf and any error
// encountered.  An empty buf produces no output.
func (w *Writer) Write(buf []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("gzchunk: write after close")
	}
	if len(buf) == 0 {
		return 0, nil
	}
	zw, err := w.factory.create(&w.compressed)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(buf); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	sz := w.compressed.Len()
	if _, err := w.compressed.WriteTo(w.w); err != nil {
		return 0, err
	}
	w.coffset += uint64(sz)
	w.nchunks++
	return len(buf), nil
}

// Close marks the writer as finished.  It does not close the underlying
// writer.  Every chunk is already complete, so no trailer is written.
func (w *Writer) Close() error {
	w.closed = true
	return nil
}

// Offset returns the number of compressed bytes written so far.
func (w *Writer) Offset() uint64 {
	return w.coffset
}

// Chunks returns the number of gzip members written so far.
func (w *Writer) Chunks() int {
	return w.nchunks
}
