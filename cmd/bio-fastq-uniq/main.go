package main

/*
  bio-fastq-uniq removes reads with duplicate sequences from a FASTQ file,
  or read pairs with duplicate sequences from a pair of FASTQ files. Of each
  set of duplicates, the copy with the highest quality score is kept. For
  more information, see github.com/grailbio/sequniq/dedup/doc.go
*/

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/sequniq/dedup"
	"github.com/grailbio/sequniq/encoding/fastq"
)

var (
	prefix       = flag.String("prefix", "", "Output filename prefix. Paired output goes to <prefix>_1.fastq and <prefix>_2.fastq, single-end output to <prefix>.fastq. By default, all reads are written to stdout")
	gzipOutput   = flag.Bool("gzip", false, "gzip the output")
	gzipMode     = flag.String("gzip-mode", "chunked", "Output compression mode with -gzip: 'chunked' compresses every output buffer as a separate gzip member, 'stream' writes one gzip stream using parallel compression")
	gzipLevel    = flag.Int("gzip-level", dedup.DefaultOpts.CompressionLevel, "gzip compression level, -2 to 9")
	phredOffset  = flag.Int("phred-offset", int(dedup.DefaultOpts.ZeroPoint), "Quality character that stands for a score of zero")
	seed         = flag.Int64("seed", -1, "Fingerprint hash seed, 0 to 4294967295. A negative value picks a random seed")
	hash         = flag.String("hash", dedup.DefaultOpts.Hasher.String(), "Fingerprint hash function: 'murmur3', 'highway' or 'farm'")
	lengthPrefix = flag.Bool("length-prefix", false, "Include the length of the first mate when fingerprinting pairs, so that pairs only match if both mates match. By default the mates are simply concatenated")
	bufferSize   = flag.Int("buffer-size", dedup.DefaultOpts.BufferSize, "Size of each output buffer, in bytes")
	metricsFile  = flag.String("metrics", "", "Output metrics file")
)

func init() {
	flag.StringVar(prefix, "p", "", "Shorthand for -prefix")
	flag.BoolVar(gzipOutput, "z", false, "Shorthand for -gzip")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] file1.fq[.gz] [file2.fq[.gz]]\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		log.Fatalf("expected one or two FASTQ files, got %d arguments", flag.NArg())
	}
	opts := dedup.DefaultOpts
	opts.R1Path = flag.Arg(0)
	opts.R2Path = flag.Arg(1)
	opts.Prefix = *prefix
	opts.CompressionLevel = *gzipLevel
	opts.BufferSize = *bufferSize
	opts.MetricsFile = *metricsFile

	if *gzipOutput {
		mode, err := dedup.ParseCompression(*gzipMode)
		if err != nil || mode == dedup.NoCompression {
			log.Fatalf("-gzip-mode must be 'chunked' or 'stream', not %q", *gzipMode)
		}
		opts.Compression = mode
	}
	if *phredOffset < 0 || *phredOffset > 255 {
		log.Fatalf("-phred-offset must be between 0 and 255, not %d", *phredOffset)
	}
	opts.ZeroPoint = byte(*phredOffset)
	var err error
	if opts.Hasher, err = dedup.ParseHasher(*hash); err != nil {
		log.Fatalf("-hash: %v", err)
	}
	if *lengthPrefix {
		opts.PairEncoding = dedup.PairLengthPrefixed
	}
	switch {
	case *seed < 0:
		opts.Seed = rand.New(rand.NewSource(time.Now().UnixNano())).Uint32()
	case *seed > 1<<32-1:
		log.Fatalf("-seed must be at most %d, not %d", uint32(1<<32-1), *seed)
	default:
		opts.Seed = uint32(*seed)
	}
	log.Debug.Printf("fingerprint seed %d", opts.Seed)

	ctx := vcontext.Background()
	if _, err := dedup.Run(ctx, opts); err != nil {
		if fastq.IsDiscordant(err) {
			log.Error.Printf("%s and %s: %v", opts.R1Path, opts.R2Path, err)
			shutdown()
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
