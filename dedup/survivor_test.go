package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	var (
		fpA = Fingerprint{1, 2}
		fpB = Fingerprint{2, 1}
		tab = NewTable()
	)
	assert.Equal(t, Inserted, tab.Update(fpA, Entry{Off1: 100, Qual: 40}))
	assert.Equal(t, Inserted, tab.Update(fpB, Entry{Off1: 50, Off2: 60, Qual: -3}))
	assert.Equal(t, Replaced, tab.Update(fpA, Entry{Off1: 200, Qual: 55}))
	// Ties keep the first survivor.
	assert.Equal(t, Retained, tab.Update(fpA, Entry{Off1: 300, Qual: 55}))
	assert.Equal(t, Retained, tab.Update(fpA, Entry{Off1: 400, Qual: 10}))
	assert.Equal(t, Replaced, tab.Update(fpB, Entry{Off1: 500, Off2: 600, Qual: -2}))
	assert.Equal(t, 2, tab.Len())

	e, ok := tab.Get(fpA)
	assert.True(t, ok)
	assert.Equal(t, Entry{Off1: 200, Qual: 55}, e)
	_, ok = tab.Get(Fingerprint{1, 1})
	assert.False(t, ok)

	assert.Equal(t, []Entry{
		{Off1: 200, Qual: 55},
		{Off1: 500, Off2: 600, Qual: -2},
	}, tab.Drain())
	assert.Equal(t, 0, tab.Len())
	assert.Empty(t, tab.Drain())
}
