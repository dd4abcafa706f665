package dedup

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/sequniq/encoding/fastq"
)

// replay writes the record (pair) at each entry's offsets to sink. in2 is
// nil for single-end input. It returns the number of records (pairs)
// written.
func replay(ctx context.Context, entries []Entry, in1, in2 *fastq.Scanner, sink *Sink) (int64, error) {
	var (
		r1, r2 fastq.Read
		n      int64
	)
	for _, e := range entries {
		if n&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		if err := readAt(in1, e.Off1, &r1); err != nil {
			return n, err
		}
		if err := sink.Write(1, &r1); err != nil {
			return n, err
		}
		if in2 != nil {
			if err := readAt(in2, e.Off2, &r2); err != nil {
				return n, err
			}
			if err := sink.Write(2, &r2); err != nil {
				return n, err
			}
		}
		n++
		if n%(1<<22) == 0 {
			log.Printf("replay: %d of %d records written", n, len(entries))
		}
	}
	return n, nil
}

// readAt scans the record starting at off. A record recorded by the first
// pass must still be there.
func readAt(s *fastq.Scanner, off int64, r *fastq.Read) error {
	if err := s.Seek(off); err != nil {
		return errors.E(err, fmt.Sprintf("replay: seek to %d", off))
	}
	if !s.Scan(r) {
		msg := fmt.Sprintf("replay: no record at offset %d", off)
		if err := s.Err(); err != nil {
			return errors.E(errors.Integrity, err, msg)
		}
		return errors.E(errors.Integrity, msg)
	}
	return nil
}
