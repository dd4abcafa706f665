package gzchunk

import (
	"bytes"
	"io"
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	for _, length := range []int{0, 1, 100, 65279, 65280, 65281, 500000} {
		t.Logf("length: %d", length)
		for _, chunkSize := range []int{1000, 65536, 1 << 20} {
			input := make([]byte, length)
			n, err := rand.Read(input)
			require.Nil(t, err)
			assert.Equal(t, length, n)

			var buf bytes.Buffer
			w, err := NewWriter(&buf, 1)
			require.Nil(t, err)
			wantChunks := 0
			for i := 0; i < length; i += chunkSize {
				end := i + chunkSize
				if end > length {
					end = length
				}
				n, err = w.Write(input[i:end])
				assert.Nil(t, err)
				assert.Equal(t, end-i, n)
				wantChunks++
			}
			assert.Nil(t, w.Close())
			assert.Equal(t, wantChunks, w.Chunks())
			assert.Equal(t, uint64(buf.Len()), w.Offset())

			if length == 0 {
				assert.Equal(t, 0, buf.Len())
				continue
			}
			r, err := gzip.NewReader(&buf)
			require.Nil(t, err)
			actual, err := ioutil.ReadAll(r)
			require.Nil(t, err)
			assert.Equal(t, length, len(actual))
			assert.Equal(t, 0, bytes.Compare(input, actual))
		}
	}
}

func TestMembers(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, gzip.DefaultCompression)
	require.NoError(t, err)
	chunks := []string{"@r1\nACGT\n+\nIIII\n", "@r2\nTTGA\n+\nIIII\n", "@r3\nA\n+\nI\n"}
	for _, c := range chunks {
		_, err := w.Write([]byte(c))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("x"))
	assert.Error(t, err)

	// Each member decodes on its own when multistream mode is off.
	r, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	r.Multistream(false)
	for i, c := range chunks {
		if i > 0 {
			err := r.Reset(&buf)
			require.NoError(t, err)
			r.Multistream(false)
		}
		got, err := ioutil.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, c, string(got))
	}
	assert.Equal(t, io.EOF, r.Reset(&buf))
}

func TestInvalidLevel(t *testing.T) {
	_, err := NewWriter(ioutil.Discard, 42)
	assert.Error(t, err)
}
