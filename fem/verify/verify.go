// Package verify implements the candidate-confirmation stage: run the
// banded edit-distance DP (scalar and SIMD) over every candidate for one
// (read, direction) pair, keep what's within budget, and hand the
// survivors back as Mappings.
package verify

import (
	"github.com/howenz/FEM/fem"
	"github.com/howenz/FEM/fem/bitvec"
	"github.com/howenz/FEM/fem/genome"
	"github.com/howenz/FEM/fem/reads"
	"github.com/howenz/FEM/fem/simd"
)

// VerifyAndEmit confirms every candidate for readIndex in the given
// direction, appending a Mapping to mappingsOut for each one whose edit
// distance is within args.ErrorThreshold. Candidates are processed in
// blocks of fem.NumVPULanes through the SIMD path; any remainder runs
// through the scalar path. Returns the number of Mappings appended.
func VerifyAndEmit(
	args *fem.Args,
	readBatch reads.Batch,
	readIndex int,
	direction fem.Direction,
	refs genome.Collection,
	candidates []fem.Candidate,
	mappingsOut *[]fem.Mapping,
) uint32 {
	L := readBatch.Length(readIndex)
	var text []byte
	if direction == fem.Positive {
		text = readBatch.Forward(readIndex)
	} else {
		text = readBatch.ReverseComplement(readIndex)
	}

	var added uint32
	n := len(candidates)
	numBlocks := n / fem.NumVPULanes

	for v := 0; v < numBlocks; v++ {
		block := candidates[v*fem.NumVPULanes : v*fem.NumVPULanes+fem.NumVPULanes]
		var candArr [fem.NumVPULanes]fem.Candidate
		copy(candArr[:], block)

		var dists, ends [fem.NumVPULanes]int16
		for k := range ends {
			ends[k] = int16(L - 1)
		}
		simd.BandedEditDistanceSIMD(args, refs, text, candArr, &dists, &ends)

		for k := 0; k < fem.NumVPULanes; k++ {
			if int(dists[k]) <= args.ErrorThreshold {
				*mappingsOut = append(*mappingsOut, fem.Mapping{
					Direction:         direction,
					EditDistance:      int(dists[k]),
					CandidatePosition: candArr[k],
					EndPositionOffset: int(ends[k]),
				})
				added++
			}
		}
	}

	for i := numBlocks * fem.NumVPULanes; i < n; i++ {
		cand := candidates[i]
		window := refs.Sequence(cand.RefIndex())[cand.Offset():]
		dist, end := bitvec.BandedEditDistance(args, window, text)
		if dist <= args.ErrorThreshold {
			*mappingsOut = append(*mappingsOut, fem.Mapping{
				Direction:         direction,
				EditDistance:      dist,
				CandidatePosition: cand,
				EndPositionOffset: end,
			})
			added++
		}
	}

	return added
}
