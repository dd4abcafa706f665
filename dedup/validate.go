package dedup

import (
	"github.com/grailbio/base/errors"
	"github.com/klauspost/compress/gzip"
)

func validate(opts *Opts) error {
	if opts.R1Path == "" {
		return errors.E(errors.Invalid, "an input FASTQ file is required")
	}
	if opts.R2Path == opts.R1Path {
		return errors.E(errors.Invalid, "the two input FASTQ files must differ:", opts.R1Path)
	}
	if opts.BufferSize <= 0 {
		return errors.E(errors.Invalid, "buffer-size must be positive")
	}
	if opts.Hasher < Murmur3 || opts.Hasher > Farm {
		return errors.E(errors.Invalid, "unknown hash function", opts.Hasher.String())
	}
	if opts.PairEncoding != PairConcat && opts.PairEncoding != PairLengthPrefixed {
		return errors.E(errors.Invalid, "unknown pair encoding")
	}
	switch opts.Compression {
	case NoCompression:
	case Chunked, Stream:
		if opts.CompressionLevel < gzip.HuffmanOnly || opts.CompressionLevel > gzip.BestCompression {
			return errors.E(errors.Invalid, "gzip-level must be between -2 and 9")
		}
	default:
		return errors.E(errors.Invalid, "unknown compression mode", opts.Compression.String())
	}
	return nil
}
