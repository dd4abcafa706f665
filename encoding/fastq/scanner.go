package fastq

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when two underlying FASTQ files are discordant.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

// IsDiscordant reports whether err was caused by a pair of FASTQ files with
// different numbers of reads.
func IsDiscordant(err error) bool {
	return err != nil && errors.Cause(err) == ErrDiscordant
}

// A Read is a FASTQ read, comprising an ID, sequence, line 3
// ("unknown"), and a quality string.
type Read struct {
	ID, Seq, Unk, Qual string
}

var errEOF = errors.New("eof")

const defaultBufferSize = 64 << 10

// countingReader tracks the position of the underlying stream, i.e. the
// number of bytes handed to the bufio layer since the last seek.
type countingReader struct {
	r   io.Reader
	pos int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.pos += int64(n)
	return n, err
}

// Scanner provides a convenient interface for reading FASTQ read
// data. The Scan method returns the next read, returning a boolean
// indicating whether the read succeeded. Scanners are not
// threadsafe.
//
// Scanner performs some validation: it requires ID lines to begin
// with "@" and that line 3 begins with "+", but does not perform
// further validation (e.g., seq/qual being of equal length,
// containing only data in range, etc.) Empty lines between reads are
// skipped, and a trailing "\r" is stripped from every line.
//
// Scanner remembers the byte offset at which each read starts. If the
// underlying reader implements io.Seeker, the scanner can be repositioned to
// any such offset with Seek.
type Scanner struct {
	cr     countingReader
	b      *bufio.Reader
	line   []byte
	err    error
	fields Field
	off    int64
}

// Field enumerates FASTQ fields. It is used to specify fields to read in
// NewScanner.
type Field uint

const (
	// ID causes the Read.ID field to be filled
	ID Field = 1 << iota
	// Seq causes the Read.Seq field to be filled
	Seq
	// Unk causes the Read.Unk field to be filled
	Unk
	// Qual causes the Read.Qual field to be filled
	Qual
	// All equals ID|Seq|Unk|Qual.
	All = ID | Seq | Unk | Qual
)

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader. Fields is a bitset of the fields to read. A typical value
// would be All or ID|Seq|Qual.
func NewScanner(r io.Reader, fields Field) *Scanner {
	return newScannerSize(r, fields, defaultBufferSize)
}

func newScannerSize(r io.Reader, fields Field, size int) *Scanner {
	f := &Scanner{cr: countingReader{r: r}, fields: fields}
	f.b = bufio.NewReaderSize(&f.cr, size)
	return f
}

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again (until Seek is called). Upon completion, the user
// should check the Err method to determine whether scanning stopped because
// of an error or because the end of the stream was reached.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	var id []byte
	for len(id) == 0 {
		f.off = f.Pos()
		line, err := f.readLine()
		if err != nil {
			if err == io.EOF {
				err = errEOF
			}
			f.err = err
			return false
		}
		id = line
	}
	if id[0] != '@' {
		f.err = ErrInvalid
		return false
	}
	if f.fields&ID != 0 {
		read.ID = string(id)
	}
	seq, ok := f.scan()
	if !ok {
		return false
	}
	if f.fields&Seq != 0 {
		read.Seq = string(seq)
	}
	unk, ok := f.scan()
	if !ok {
		return false
	}
	if len(unk) == 0 || unk[0] != '+' {
		f.err = ErrInvalid
		return false
	}
	if f.fields&Unk != 0 {
		read.Unk = string(unk)
	}
	qual, ok := f.scan()
	if !ok {
		return false
	}
	if f.fields&Qual != 0 {
		read.Qual = string(qual)
	}
	return true
}

func (f *Scanner) scan() ([]byte, bool) {
	line, err := f.readLine()
	if err != nil {
		if err == io.EOF {
			err = ErrShort
		}
		f.err = err
		return nil, false
	}
	return line, true
}

// readLine returns the next line without its line terminator. The returned
// slice is only valid until the next call.
func (f *Scanner) readLine() ([]byte, error) {
	f.line = f.line[:0]
	for {
		frag, err := f.b.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			f.line = append(f.line, frag...)
			continue
		}
		if len(f.line) > 0 {
			f.line = append(f.line, frag...)
			frag = f.line
		}
		if err == io.EOF && len(frag) > 0 {
			err = nil
		}
		if err != nil {
			return nil, err
		}
		if n := len(frag); n > 0 && frag[n-1] == '\n' {
			frag = frag[:n-1]
		}
		if n := len(frag); n > 0 && frag[n-1] == '\r' {
			frag = frag[:n-1]
		}
		return frag, nil
	}
}

// Offset returns the byte offset of the start of the read returned by the
// last successful call to Scan. Seek(Offset()) followed by Scan reproduces
// that read.
func (f *Scanner) Offset() int64 {
	return f.off
}

// Pos returns the offset of the first byte that the scanner has not yet
// consumed: the position of the underlying stream minus the scanner's
// look-ahead.
func (f *Scanner) Pos() int64 {
	return f.cr.pos - int64(f.b.Buffered())
}

// Seek repositions the scanner so that the next call to Scan parses the read
// starting at byte off of the underlying stream. The error (including
// end-of-stream) state is discarded. If off lies within the scanner's
// look-ahead, Seek skips forward in the buffer without touching the
// underlying stream, so reads visited in increasing offset order never make
// the stream move backwards. Otherwise the look-ahead is dropped before the
// underlying stream is repositioned. The underlying reader must implement
// io.Seeker.
func (f *Scanner) Seek(off int64) error {
	s, ok := f.cr.r.(io.Seeker)
	if !ok {
		return errors.New("fastq: underlying reader does not implement io.Seeker")
	}
	f.err = nil
	if pos := f.Pos(); off >= pos && off <= f.cr.pos {
		if _, err := f.b.Discard(int(off - pos)); err != nil {
			f.err = errors.Wrapf(err, "fastq: seek to %d", off)
			return f.err
		}
		f.off = off
		return nil
	}
	f.b.Reset(&f.cr)
	if _, err := s.Seek(off, io.SeekStart); err != nil {
		f.err = errors.Wrapf(err, "fastq: seek to %d", off)
		return f.err
	}
	f.cr.pos = off
	f.off = off
	return nil
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}

// PairScanner composes a pair of scanners to scan a pair of FASTQ
// streams.
type PairScanner struct {
	r1, r2 *Scanner
	n      int64
	err    error
}

// NewPairScanner creates a new FASTQ pair scanner from the provided
// R1 and R2 scanners. The scanners stay usable on their own, e.g. to
// Seek them or to query their offsets.
func NewPairScanner(r1, r2 *Scanner) *PairScanner {
	return &PairScanner{r1: r1, r2: r2}
}

// Scan scans the next read pair into r1, r2. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
//
// Scanning stops when R1 is exhausted. If R1 yields a read but R2 does not,
// Err reports ErrDiscordant. Reads left over in R2 after R1 ends are not
// examined.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	if p.err != nil || !p.r1.Scan(r1) {
		return false
	}
	if !p.r2.Scan(r2) {
		if p.r2.Err() == nil {
			p.err = errors.Wrapf(ErrDiscordant, "R1 has more reads than R2 (R2 ended after %d reads)", p.n)
		}
		return false
	}
	p.n++
	return true
}

// Err returns the scanning error, if any. It should be checked
// after Scan returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
