package dedup

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Hasher selects the 128-bit hash function used to fingerprint reads.
type Hasher int

const (
	// Murmur3 is MurmurHash3 x64 128.
	Murmur3 Hasher = iota
	// Highway is HighwayHash-128, keyed by the seed.
	Highway
	// Farm is FarmHash 128.
	Farm
)

var hasherNames = []string{"murmur3", "highway", "farm"}

func (h Hasher) String() string {
	if h < 0 || int(h) >= len(hasherNames) {
		return fmt.Sprintf("Hasher(%d)", int(h))
	}
	return hasherNames[h]
}

// ParseHasher parses a hash function name as printed by Hasher.String.
func ParseHasher(s string) (Hasher, error) {
	for i, name := range hasherNames {
		if strings.EqualFold(s, name) {
			return Hasher(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hash function %q, must be one of %s", s, strings.Join(hasherNames, ", "))
}

// PairEncoding determines how the sequences of a read pair are combined
// before fingerprinting.
type PairEncoding int

const (
	// PairConcat hashes R1's sequence immediately followed by R2's. Pairs
	// whose concatenations are equal collide even if the split point
	// differs, e.g. "AC"+"GT" and "ACG"+"T".
	PairConcat PairEncoding = iota
	// PairLengthPrefixed prefixes the concatenation with the uvarint length
	// of R1's sequence, so only pairs with identical mates collide.
	PairLengthPrefixed
)

// Compression selects how output is compressed.
type Compression int

const (
	// NoCompression writes plain FASTQ.
	NoCompression Compression = iota
	// Chunked compresses every output buffer flush as an independent gzip
	// member.
	Chunked
	// Stream writes one continuous gzip stream, compressed in parallel.
	Stream
)

var compressionNames = []string{"none", "chunked", "stream"}

func (c Compression) String() string {
	if c < 0 || int(c) >= len(compressionNames) {
		return fmt.Sprintf("Compression(%d)", int(c))
	}
	return compressionNames[c]
}

// ParseCompression parses a compression mode as printed by
// Compression.String.
func ParseCompression(s string) (Compression, error) {
	for i, name := range compressionNames {
		if strings.EqualFold(s, name) {
			return Compression(i), nil
		}
	}
	return 0, fmt.Errorf("unknown compression mode %q, must be one of %s", s, strings.Join(compressionNames, ", "))
}

// Opts for read deduplication.
type Opts struct {
	// R1Path is the FASTQ file to deduplicate. Required.
	R1Path string
	// R2Path, if set, is the FASTQ file holding the mates of R1Path's reads.
	R2Path string
	// Prefix names the output files: <Prefix>.fastq for single-end input,
	// <Prefix>_1.fastq and <Prefix>_2.fastq for paired input, plus ".gz"
	// when compressed. If empty, all reads are written to Stdout.
	Prefix string
	// Stdout receives the output when Prefix is empty. Defaults to os.Stdout.
	Stdout io.Writer

	Compression      Compression
	CompressionLevel int
	// BufferSize is the capacity of each output buffer, in bytes.
	BufferSize int

	// ZeroPoint is subtracted from every quality character when scoring.
	ZeroPoint byte
	// Seed keys the fingerprint hash. Fingerprints are only comparable
	// within one seed.
	Seed         uint32
	Hasher       Hasher
	PairEncoding PairEncoding

	// MetricsFile, if set, receives a TSV summary of the run.
	MetricsFile string
}

// DefaultOpts are the default settings; R1Path must still be set.
var DefaultOpts = Opts{
	Compression:      NoCompression,
	CompressionLevel: gzip.DefaultCompression,
	BufferSize:       256 << 10,
	ZeroPoint:        33,
	Hasher:           Murmur3,
	PairEncoding:     PairConcat,
}

// Paired reports whether opts describe paired-end input.
func (o *Opts) Paired() bool { return o.R2Path != "" }
