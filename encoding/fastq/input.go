package fastq

import (
	"context"
	"io"
	"io/ioutil"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

var gzipMagic = [2]byte{0x1f, 0x8b}

// Input is an open FASTQ file. Gzip-compressed files (recognized by their
// magic number, not their name) are decompressed transparently. Input
// implements io.ReadSeeker; offsets always refer to the uncompressed FASTQ
// text, so a Scanner built on an Input can Seek either kind of file.
type Input struct {
	f    file.File
	r    io.ReadSeeker
	gzip bool
}

// Open opens the FASTQ file at path. The caller must Close it.
func Open(ctx context.Context, path string) (*Input, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	raw := f.Reader(ctx)
	var magic [2]byte
	n, err := io.ReadFull(raw, magic[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		_ = f.Close(ctx)
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if _, err := raw.Seek(0, io.SeekStart); err != nil {
		_ = f.Close(ctx)
		return nil, errors.Wrapf(err, "seek %s", path)
	}
	in := &Input{f: f, r: raw}
	if n == len(magic) && magic == gzipMagic {
		gz, err := newGzipSeeker(raw)
		if err != nil {
			_ = f.Close(ctx)
			return nil, errors.Wrapf(err, "gunzip %s", path)
		}
		in.r, in.gzip = gz, true
	}
	return in, nil
}

// Name returns the path of the file.
func (in *Input) Name() string { return in.f.Name() }

// Compressed reports whether the file is gzip-compressed.
func (in *Input) Compressed() bool { return in.gzip }

// Read implements io.Reader.
func (in *Input) Read(p []byte) (int, error) { return in.r.Read(p) }

// Seek implements io.Seeker. For compressed files only io.SeekStart and
// io.SeekCurrent are supported.
func (in *Input) Seek(offset int64, whence int) (int64, error) {
	return in.r.Seek(offset, whence)
}

// Close closes the file.
func (in *Input) Close(ctx context.Context) error {
	return in.f.Close(ctx)
}

// gzipSeeker makes a gzip stream seekable in terms of uncompressed offsets.
// Seeking forward discards decompressed bytes; seeking backward restarts
// decompression at the beginning of the file.
type gzipSeeker struct {
	src io.ReadSeeker
	zr  *gzip.Reader
	pos int64
}

func newGzipSeeker(src io.ReadSeeker) (*gzipSeeker, error) {
	zr, err := gzip.NewReader(src)
	if err != nil {
		return nil, err
	}
	return &gzipSeeker{src: src, zr: zr}, nil
}

func (g *gzipSeeker) Read(p []byte) (int, error) {
	n, err := g.zr.Read(p)
	g.pos += int64(n)
	return n, err
}

func (g *gzipSeeker) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = g.pos + offset
	default:
		return g.pos, errors.Errorf("gzip seek: unsupported whence %d", whence)
	}
	if target < 0 {
		return g.pos, errors.Errorf("gzip seek: negative position %d", target)
	}
	if target < g.pos {
		if _, err := g.src.Seek(0, io.SeekStart); err != nil {
			return g.pos, err
		}
		if err := g.zr.Reset(g.src); err != nil {
			return g.pos, err
		}
		g.pos = 0
	}
	n, err := io.CopyN(ioutil.Discard, g.zr, target-g.pos)
	g.pos += n
	if err == io.EOF {
		// Like an os.File, allow positioning past the end; the next Read
		// reports io.EOF.
		err = nil
	}
	return g.pos, err
}
