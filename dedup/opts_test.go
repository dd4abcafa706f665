package dedup

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, h := range []Hasher{Murmur3, Highway, Farm} {
		got, err := ParseHasher(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}
	got, err := ParseHasher("HighWay")
	require.NoError(t, err)
	assert.Equal(t, Highway, got)
	_, err = ParseHasher("md5")
	assert.Error(t, err)

	for _, c := range []Compression{NoCompression, Chunked, Stream} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err = ParseCompression("bzip2")
	assert.Error(t, err)
	assert.Equal(t, "Compression(7)", Compression(7).String())
}

func TestValidate(t *testing.T) {
	opts := func(f func(o *Opts)) *Opts {
		o := DefaultOpts
		o.R1Path = "r1.fq"
		f(&o)
		return &o
	}
	assert.NoError(t, validate(opts(func(o *Opts) {})))
	assert.NoError(t, validate(opts(func(o *Opts) { o.R2Path = "r2.fq"; o.Compression = Stream })))
	for _, o := range []*Opts{
		opts(func(o *Opts) { o.R1Path = "" }),
		opts(func(o *Opts) { o.R2Path = o.R1Path }),
		opts(func(o *Opts) { o.BufferSize = 0 }),
		opts(func(o *Opts) { o.Hasher = Hasher(9) }),
		opts(func(o *Opts) { o.PairEncoding = PairEncoding(9) }),
		opts(func(o *Opts) { o.Compression = Compression(9) }),
		opts(func(o *Opts) { o.Compression = Chunked; o.CompressionLevel = 10 }),
	} {
		err := validate(o)
		assert.True(t, errors.Is(errors.Invalid, err), "%+v: %v", o, err)
	}
}
