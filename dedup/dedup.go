package dedup

import (
	"context"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/sequniq/encoding/fastq"
)

const progressInterval = 1 << 22

// Run deduplicates the reads in opts.R1Path (and their mates in
// opts.R2Path) and writes one copy of every distinct sequence, the one with
// the highest quality score, to the outputs named by opts.
//
// If the R2 file runs out of reads before the R1 file, Run fails with an
// error for which fastq.IsDiscordant is true, and no output is created. If
// the second pass fails, the output files created so far are removed.
func Run(ctx context.Context, opts Opts) (m Metrics, err error) {
	if err = validate(&opts); err != nil {
		return
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	e := errors.Once{}
	defer func() {
		if err == nil {
			err = e.Err()
		}
	}()

	in1, err := fastq.Open(ctx, opts.R1Path)
	if err != nil {
		return
	}
	defer func() { e.Set(in1.Close(ctx)) }()
	log.Debug.Printf("opened %s, gzip: %v", in1.Name(), in1.Compressed())
	s1 := fastq.NewScanner(in1, fastq.ID|fastq.Seq|fastq.Qual)
	var s2 *fastq.Scanner
	if opts.Paired() {
		var in2 *fastq.Input
		if in2, err = fastq.Open(ctx, opts.R2Path); err != nil {
			return
		}
		defer func() { e.Set(in2.Close(ctx)) }()
		log.Debug.Printf("opened %s, gzip: %v", in2.Name(), in2.Compressed())
		s2 = fastq.NewScanner(in2, fastq.ID|fastq.Seq|fastq.Qual)
	}

	table, m, err := firstPass(ctx, s1, s2, &opts)
	if err != nil {
		return
	}
	log.Printf("%s: %d records examined, %d distinct", opts.R1Path, m.RecordsExamined, m.Survivors)

	sink, err := NewSink(ctx, sinkOpts(&opts))
	if err != nil {
		return
	}
	m.RecordsWritten, err = replay(ctx, table.Drain(), s1, s2, sink)
	if err != nil {
		e.Set(sink.Abort(ctx))
		return
	}
	if err = sink.Close(ctx); err != nil {
		return
	}
	m.OutputDigest = sink.Digest()
	log.Printf("%s: %s", opts.R1Path, m.String())

	if opts.MetricsFile != "" {
		err = writeMetrics(ctx, opts.MetricsFile, &m)
	}
	return
}

// firstPass fingerprints every record (pair) and builds the table of
// survivors. s2 is nil for single-end input.
func firstPass(ctx context.Context, s1, s2 *fastq.Scanner, opts *Opts) (*Table, Metrics, error) {
	var (
		table = NewTable()
		m     Metrics
		r1    fastq.Read
	)
	update := func(content []byte, e Entry) {
		m.add(table.Update(opts.Hasher.Fingerprint(content, opts.Seed), e))
		if m.RecordsExamined%progressInterval == 0 {
			log.Printf("%s: %d records examined, %d distinct", opts.R1Path, m.RecordsExamined, table.Len())
		}
	}

	if s2 == nil {
		for s1.Scan(&r1) {
			if m.RecordsExamined&0xffff == 0 {
				if err := ctx.Err(); err != nil {
					return nil, m, err
				}
			}
			update(gunsafe.StringToBytes(r1.Seq), Entry{
				Off1: s1.Offset(),
				Qual: Score(gunsafe.StringToBytes(r1.Qual), opts.ZeroPoint),
			})
		}
		if err := s1.Err(); err != nil {
			return nil, m, errors.E(err, opts.R1Path)
		}
		m.Survivors = int64(table.Len())
		return table, m, nil
	}

	var (
		r2 fastq.Read
		kb = keyBuilder{enc: opts.PairEncoding}
		ps = fastq.NewPairScanner(s1, s2)
	)
	for ps.Scan(&r1, &r2) {
		if m.RecordsExamined&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, m, err
			}
		}
		qual := Score(gunsafe.StringToBytes(r1.Qual), opts.ZeroPoint) +
			Score(gunsafe.StringToBytes(r2.Qual), opts.ZeroPoint)
		update(kb.pair(gunsafe.StringToBytes(r1.Seq), gunsafe.StringToBytes(r2.Seq)), Entry{
			Off1: s1.Offset(),
			Off2: s2.Offset(),
			Qual: qual,
		})
	}
	if err := ps.Err(); err != nil {
		if fastq.IsDiscordant(err) {
			return nil, m, err
		}
		return nil, m, errors.E(err, opts.R1Path, opts.R2Path)
	}
	if s2.Scan(&r2) {
		log.Error.Printf("%s has more reads than %s; reads after %d were ignored",
			opts.R2Path, opts.R1Path, m.RecordsExamined)
	}
	m.Survivors = int64(table.Len())
	return table, m, nil
}
