package reads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInMemory(t *testing.T) {
	b := NewInMemory(
		[]string{"read0"},
		[][]byte{[]byte("ACGTN")},
		[][]byte{[]byte("IIIII")},
	)
	assert.Equal(t, "read0", b.Name(0))
	assert.Equal(t, 5, b.Length(0))
	assert.Equal(t, []byte("ACGTN"), b.Forward(0))
	assert.Equal(t, []byte("IIIII"), b.Quality(0))
	assert.Equal(t, []byte("NACGT"), b.ReverseComplement(0))
}

func TestNewInMemoryLengthMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		NewInMemory([]string{"read0", "read1"}, [][]byte{[]byte("ACGT")}, [][]byte{[]byte("IIII")})
	})
}

func TestReverseComplementPalindrome(t *testing.T) {
	b := NewInMemory([]string{"r"}, [][]byte{[]byte("ACGT")}, [][]byte{[]byte("IIII")})
	assert.Equal(t, []byte("ACGT"), b.ReverseComplement(0))
}
