package dedup

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"
	"github.com/minio/highwayhash"
	"github.com/spaolacci/murmur3"
)

// Fingerprint is a 128-bit hash of a read's (or read pair's) sequence. It is
// used as a map key; Go hashes and compares all of its bytes, so both words
// take part in table placement.
type Fingerprint [2]uint64

// Fingerprint hashes content with the given seed. It is a pure function of
// its arguments.
func (h Hasher) Fingerprint(content []byte, seed uint32) Fingerprint {
	switch h {
	case Highway:
		key := highwayKey(seed)
		sum := highwayhash.Sum128(content, key[:])
		return Fingerprint{
			binary.LittleEndian.Uint64(sum[:8]),
			binary.LittleEndian.Uint64(sum[8:]),
		}
	case Farm:
		h1, h2 := farm.Hash128WithSeed(content, uint64(seed), uint64(seed))
		return Fingerprint{h1, h2}
	default:
		h1, h2 := murmur3.Sum128WithSeed(content, seed)
		return Fingerprint{h1, h2}
	}
}

func highwayKey(seed uint32) (key [highwayhash.Size]byte) {
	binary.LittleEndian.PutUint32(key[:4], seed)
	return
}

// keyBuilder assembles the bytes that are fingerprinted for a read pair. It
// reuses one buffer that grows to fit the longest pair seen.
type keyBuilder struct {
	enc PairEncoding
	buf []byte
}

// pair returns the fingerprint content for the mates seq1 and seq2. The
// result is only valid until the next call.
func (k *keyBuilder) pair(seq1, seq2 []byte) []byte {
	k.buf = k.buf[:0]
	if k.enc == PairLengthPrefixed {
		var n [binary.MaxVarintLen64]byte
		k.buf = append(k.buf, n[:binary.PutUvarint(n[:], uint64(len(seq1)))]...)
	}
	k.buf = append(k.buf, seq1...)
	k.buf = append(k.buf, seq2...)
	return k.buf
}
