package verify

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/howenz/FEM/fem"
	"github.com/howenz/FEM/fem/genome"
	"github.com/howenz/FEM/fem/reads"
)

func TestVerifyAndEmitKeepsOnlyWithinBudget(t *testing.T) {
	args := fem.NewArgs(2)
	refs := genome.NewInMemory(
		[]string{"chr1"},
		[][]byte{[]byte("AAAACGTACGTAAAAACGACGTAAAAAATTTTAAAATTTTAAAA")},
	)
	readBatch := reads.NewInMemory(
		[]string{"r0"},
		[][]byte{[]byte("CGTACGT")},
		[][]byte{[]byte("IIIIIII")},
	)

	candidates := []fem.Candidate{
		fem.PackCandidate(0, 2),  // window "AACGTACGTAAAA..." -> exact match nearby
		fem.PackCandidate(0, 30), // far from anything resembling the read
	}

	var mappings []fem.Mapping
	n := VerifyAndEmit(args, readBatch, 0, fem.Positive, refs, candidates, &mappings)
	require.LessOrEqual(t, int(n), len(candidates))
	for _, m := range mappings {
		assert.LessOrEqual(t, m.EditDistance, args.ErrorThreshold)
	}
}

func TestVerifyAndEmitRunsBlocksOfEightThroughSIMDAndRemainderThroughScalar(t *testing.T) {
	args := fem.NewArgs(2)
	window := "AAAACGTACGTAAAA"
	refs := genome.NewInMemory([]string{"chr1"}, [][]byte{[]byte(window)})
	readBatch := reads.NewInMemory(
		[]string{"r0"},
		[][]byte{[]byte("CGTACGT")},
		[][]byte{[]byte("IIIIIII")},
	)

	// 10 identical candidates: one full SIMD block of 8, plus 2 scalar.
	candidates := make([]fem.Candidate, 10)
	for i := range candidates {
		candidates[i] = fem.PackCandidate(0, 0)
	}

	var mappings []fem.Mapping
	n := VerifyAndEmit(args, readBatch, 0, fem.Positive, refs, candidates, &mappings)
	assert.Equal(t, uint32(10), n)
	assert.Len(t, mappings, 10)
	for _, m := range mappings {
		assert.Equal(t, 0, m.EditDistance)
	}
}

func TestSortMappingsOrdersByKeyAscending(t *testing.T) {
	mappings := []fem.Mapping{
		{Direction: fem.Positive, EditDistance: 2, CandidatePosition: fem.PackCandidate(0, 100), EndPositionOffset: 6},
		{Direction: fem.Negative, EditDistance: 0, CandidatePosition: fem.PackCandidate(0, 50), EndPositionOffset: 6},
		{Direction: fem.Positive, EditDistance: 0, CandidatePosition: fem.PackCandidate(0, 10), EndPositionOffset: 6},
		{Direction: fem.Positive, EditDistance: 1, CandidatePosition: fem.PackCandidate(0, 5), EndPositionOffset: 6},
	}

	want := make([]fem.Mapping, len(mappings))
	copy(want, mappings)
	sort.Slice(want, func(i, j int) bool { return want[i].SortKey() < want[j].SortKey() })

	SortMappings(mappings)
	assert.Equal(t, want, mappings)
}

func TestSortMappingsHandlesSmallSlices(t *testing.T) {
	assert.NotPanics(t, func() { SortMappings(nil) })
	assert.NotPanics(t, func() { SortMappings([]fem.Mapping{{}}) })
}
