package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/howenz/FEM/fem"
	"github.com/howenz/FEM/fem/bitvec"
)

type fakeRefs struct {
	seqs [][]byte
}

func (f fakeRefs) Sequence(seqIndex uint32) []byte { return f.seqs[seqIndex] }

func TestBandedEditDistanceSIMDMatchesScalarAcrossLanes(t *testing.T) {
	args := fem.NewArgs(2)
	text := []byte("CGTACGT")

	windows := [fem.NumVPULanes]string{
		"AAAACGTACGTAAAA", // exact match
		"AAAACGTACGAAAAA", // one substitution
		"AAAANGTACGTAAAA", // ambiguous reference base
		"AAAACGACGTAAAAA", // one insertion
		"AAAACGTACGTAAAA",
		"AAAACGTACGTAAAA",
		"AAAACGTACGTAAAA",
		"AAAACGTACGTAAAA",
	}

	refs := fakeRefs{}
	var candidates [fem.NumVPULanes]fem.Candidate
	for i, w := range windows {
		refs.seqs = append(refs.seqs, []byte(w))
		candidates[i] = fem.PackCandidate(uint32(i), 0)
	}

	var dists, ends [fem.NumVPULanes]int16
	L := len(text)
	for i := range ends {
		ends[i] = int16(L - 1)
	}

	BandedEditDistanceSIMD(args, refs, text, candidates, &dists, &ends)

	for i, w := range windows {
		wantDist, wantEnd := bitvec.BandedEditDistance(args, []byte(w), text)
		assert.Equalf(t, wantDist, int(dists[i]), "lane %d distance", i)
		assert.Equalf(t, wantEnd, int(ends[i]), "lane %d end position", i)
	}
}

func TestBandedEditDistanceSIMDEarlyExit(t *testing.T) {
	args := fem.NewArgs(2)
	text := []byte("CGTACGT")
	badWindow := "AAAATTTTAAAA"

	refs := fakeRefs{}
	var candidates [fem.NumVPULanes]fem.Candidate
	for i := 0; i < fem.NumVPULanes; i++ {
		refs.seqs = append(refs.seqs, []byte(badWindow))
		candidates[i] = fem.PackCandidate(uint32(i), 0)
	}

	var dists, ends [fem.NumVPULanes]int16
	for i := range ends {
		ends[i] = int16(len(text) - 1)
	}
	BandedEditDistanceSIMD(args, refs, text, candidates, &dists, &ends)

	for i, d := range dists {
		assert.Greaterf(t, int(d), args.ErrorThreshold, "lane %d should have exceeded budget", i)
	}
}

func TestBandedEditDistanceSIMDShortWindowPanics(t *testing.T) {
	args := fem.NewArgs(2)
	text := []byte("CGTACGT")
	refs := fakeRefs{}
	var candidates [fem.NumVPULanes]fem.Candidate
	for i := 0; i < fem.NumVPULanes; i++ {
		refs.seqs = append(refs.seqs, []byte("CGTACGT"))
		candidates[i] = fem.PackCandidate(uint32(i), 0)
	}
	var dists, ends [fem.NumVPULanes]int16
	require.Panics(t, func() {
		BandedEditDistanceSIMD(args, refs, text, candidates, &dists, &ends)
	})
}
