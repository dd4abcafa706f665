package dedup

import (
	"testing"

	"github.com/spaolacci/murmur3"
	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	for _, h := range []Hasher{Murmur3, Highway, Farm} {
		t.Run(h.String(), func(t *testing.T) {
			a := h.Fingerprint([]byte("ACGTACGT"), 1)
			assert.Equal(t, a, h.Fingerprint([]byte("ACGTACGT"), 1))
			assert.NotEqual(t, a, h.Fingerprint([]byte("ACGTACGA"), 1))
			assert.NotEqual(t, a, h.Fingerprint([]byte("ACGTACGT"), 2))
		})
	}
	assert.NotEqual(t, Murmur3.Fingerprint([]byte("ACGT"), 7), Highway.Fingerprint([]byte("ACGT"), 7))
	assert.NotEqual(t, Murmur3.Fingerprint([]byte("ACGT"), 7), Farm.Fingerprint([]byte("ACGT"), 7))

	h1, h2 := murmur3.Sum128WithSeed([]byte("ACGT"), 7)
	assert.Equal(t, Fingerprint{h1, h2}, Murmur3.Fingerprint([]byte("ACGT"), 7))
}

func TestKeyBuilder(t *testing.T) {
	kb := keyBuilder{enc: PairConcat}
	assert.Equal(t, "ACGT", string(kb.pair([]byte("AC"), []byte("GT"))))
	assert.Equal(t, "ACGT", string(kb.pair([]byte("ACG"), []byte("T"))))
	assert.Equal(t, "A", string(kb.pair([]byte("A"), nil)))
	assert.Equal(t, "", string(kb.pair(nil, nil)))

	kb = keyBuilder{enc: PairLengthPrefixed}
	a := string(kb.pair([]byte("AC"), []byte("GT")))
	b := string(kb.pair([]byte("ACG"), []byte("T")))
	assert.Equal(t, "\x02ACGT", a)
	assert.Equal(t, "\x03ACGT", b)

	long := make([]byte, 300)
	for i := range long {
		long[i] = "ACGT"[i%4]
	}
	key := kb.pair(long, []byte("N"))
	assert.Equal(t, []byte{0xac, 0x02}, key[:2])
	assert.Equal(t, string(long)+"N", string(key[2:]))
	// A shorter pair after a longer one must not see stale bytes.
	assert.Equal(t, "\x01AC", string(kb.pair([]byte("A"), []byte("C"))))
}
