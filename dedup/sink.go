package dedup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/sequniq/encoding/fastq"
	"github.com/grailbio/sequniq/encoding/gzchunk"
	"github.com/klauspost/pgzip"
)

// SinkOpts configures a Sink.
type SinkOpts struct {
	// Prefix names the output files. If empty, everything goes to Stdout.
	Prefix string
	// Stdout receives the output when Prefix is empty. It is not closed.
	Stdout io.Writer
	// Paired routes mate 1 and mate 2 to <Prefix>_1 and <Prefix>_2.
	Paired bool

	Compression Compression
	Level       int
	// BufferSize is the capacity of each destination's buffer.
	BufferSize int
}

func sinkOpts(opts *Opts) SinkOpts {
	return SinkOpts{
		Prefix:      opts.Prefix,
		Stdout:      opts.Stdout,
		Paired:      opts.Paired(),
		Compression: opts.Compression,
		Level:       opts.CompressionLevel,
		BufferSize:  opts.BufferSize,
	}
}

// Sink writes FASTQ records to one or two destinations through fixed-size
// buffers. With Chunked compression, every buffer flush becomes one gzip
// member. Sink is not threadsafe.
type Sink struct {
	dests []*destination
	// rec holds the formatted text of the record being written.
	rec     bytes.Buffer
	w       *fastq.Writer
	digest  uint64
	records int64
}

// destination is one output stream together with its buffer.
type destination struct {
	path string
	f    file.File
	zw   io.WriteCloser
	out  io.Writer
	buf  bytes.Buffer
	cap  int
}

// NewSink creates the destinations described by opts. Files are created
// immediately; the caller must Close the sink.
func NewSink(ctx context.Context, opts SinkOpts) (*Sink, error) {
	if opts.BufferSize <= 0 {
		return nil, errors.E(errors.Invalid, "sink buffer size must be positive")
	}
	s := &Sink{}
	s.w = fastq.NewWriter(&s.rec)
	var paths []string
	switch {
	case opts.Prefix == "":
		paths = []string{""}
	case opts.Paired:
		paths = []string{opts.Prefix + "_1" + ext(opts.Compression), opts.Prefix + "_2" + ext(opts.Compression)}
	default:
		paths = []string{opts.Prefix + ext(opts.Compression)}
	}
	for _, path := range paths {
		d, err := newDestination(ctx, path, opts)
		if err != nil {
			_ = s.Abort(ctx)
			return nil, err
		}
		s.dests = append(s.dests, d)
	}
	return s, nil
}

func ext(c Compression) string {
	if c == NoCompression {
		return ".fastq"
	}
	return ".fastq.gz"
}

func newDestination(ctx context.Context, path string, opts SinkOpts) (*destination, error) {
	d := &destination{path: path, cap: opts.BufferSize}
	var raw io.Writer
	if path == "" {
		d.path = "(stdout)"
		raw = opts.Stdout
		if raw == nil {
			raw = os.Stdout
		}
	} else {
		f, err := file.Create(ctx, path)
		if err != nil {
			return nil, errors.E(err, "create", path)
		}
		d.f = f
		raw = f.Writer(ctx)
	}
	d.out = raw
	switch opts.Compression {
	case Chunked:
		zw, err := gzchunk.NewWriter(raw, opts.Level)
		if err != nil {
			d.close(ctx)
			return nil, errors.E(errors.Invalid, err, d.path)
		}
		d.zw, d.out = zw, zw
	case Stream:
		zw, err := pgzip.NewWriterLevel(raw, opts.Level)
		if err != nil {
			d.close(ctx)
			return nil, errors.E(errors.Invalid, err, d.path)
		}
		d.zw, d.out = zw, zw
	}
	d.buf.Grow(opts.BufferSize)
	return d, nil
}

// append adds rec to the buffer, flushing the buffer first if rec would
// not fit. A record larger than the capacity is buffered on its own.
func (d *destination) append(rec []byte) error {
	if d.buf.Len() > 0 && d.buf.Len()+len(rec) > d.cap {
		if err := d.flush(); err != nil {
			return err
		}
	}
	d.buf.Write(rec)
	return nil
}

func (d *destination) flush() error {
	if d.buf.Len() == 0 {
		return nil
	}
	if _, err := d.out.Write(d.buf.Bytes()); err != nil {
		return errors.E(err, "write", d.path)
	}
	d.buf.Reset()
	return nil
}

func (d *destination) close(ctx context.Context) error {
	e := errors.Once{}
	e.Set(d.flush())
	if d.zw != nil {
		if err := d.zw.Close(); err != nil {
			e.Set(errors.E(err, "close", d.path))
		}
	}
	if d.f != nil {
		if err := d.f.Close(ctx); err != nil {
			e.Set(errors.E(err, "close", d.path))
		}
	}
	return e.Err()
}

// Write formats r and appends it to the destination of the given mate (1 or
// 2). Unpaired sinks have a single destination, which also receives mate 2
// when writing to stdout.
func (s *Sink) Write(mate int, r *fastq.Read) error {
	if mate != 1 && mate != 2 {
		return errors.E(errors.Invalid, fmt.Sprintf("invalid mate %d", mate))
	}
	if len(s.dests) == 0 {
		return errors.E(errors.Invalid, "write to closed sink")
	}
	d := s.dests[0]
	if len(s.dests) > 1 {
		d = s.dests[mate-1]
	}
	s.rec.Reset()
	if err := s.w.Write(r); err != nil {
		return err
	}
	s.digest += seahash.Sum64(s.rec.Bytes())
	s.records++
	return d.append(s.rec.Bytes())
}

// Digest returns the sum of the seahash values of all the records written so
// far. It does not depend on the order in which records were written.
func (s *Sink) Digest() uint64 { return s.digest }

// Records returns the number of records written so far; a pair counts twice.
func (s *Sink) Records() int64 { return s.records }

// Abort closes every destination and removes the files that NewSink
// created, so that a failed run leaves no partial output. Output already
// written to Stdout cannot be taken back.
func (s *Sink) Abort(ctx context.Context) error {
	e := errors.Once{}
	for _, d := range s.dests {
		_ = d.close(ctx)
		if d.f != nil {
			if err := file.Remove(ctx, d.path); err != nil {
				e.Set(errors.E(err, "remove", d.path))
			}
		}
	}
	s.dests = nil
	return e.Err()
}

// Close flushes and closes every destination.
func (s *Sink) Close(ctx context.Context) error {
	e := errors.Once{}
	for _, d := range s.dests {
		e.Set(d.close(ctx))
		log.Debug.Printf("closed %s", d.path)
	}
	s.dests = nil
	return e.Err()
}
