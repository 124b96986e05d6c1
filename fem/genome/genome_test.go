package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInMemory(t *testing.T) {
	c := NewInMemory([]string{"chr1", "chr2"}, [][]byte{[]byte("AAAA"), []byte("CCCCCC")})
	assert.Equal(t, 2, c.NumSequences())
	assert.Equal(t, "chr1", c.Name(0))
	assert.Equal(t, "chr2", c.Name(1))
	assert.Equal(t, []byte("AAAA"), c.Sequence(0))
	assert.Equal(t, []byte("CCCCCC"), c.Sequence(1))
}

func TestNewInMemoryLengthMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		NewInMemory([]string{"chr1", "chr2"}, [][]byte{[]byte("AAAA")})
	})
}

func TestWindow(t *testing.T) {
	c := NewInMemory([]string{"chr1"}, [][]byte{[]byte("ACGTACGTAC")})
	assert.Equal(t, []byte("GTAC"), c.Window(0, 2, 4))
	assert.Equal(t, []byte("AC"), c.Window(0, 8, 2))
}

func TestWindowOutOfBoundsPanics(t *testing.T) {
	c := NewInMemory([]string{"chr1"}, [][]byte{[]byte("ACGTACGTAC")})
	require.Panics(t, func() {
		c.Window(0, 8, 10)
	})
}
