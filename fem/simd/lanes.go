package simd

import "github.com/howenz/FEM/fem"

// lanes8 is the software stand-in for the 128-bit SSE2 register the
// original vectorized_banded_edit_distance keeps its bit vectors in: eight
// independent 16-bit lanes, one per candidate in a block, updated in
// lockstep. There is no SIMD intrinsic in the standard library, so each
// "vector instruction" below is a plain loop over the eight lanes — the
// narrow numeric trait the design notes call for, sized to this algorithm's
// shape rather than expressed as a generic constraint.
type lanes8 [fem.NumVPULanes]uint16

func broadcast(v uint16) lanes8 {
	var r lanes8
	for i := range r {
		r[i] = v
	}
	return r
}

func (a lanes8) or(b lanes8) lanes8 {
	var r lanes8
	for i := range r {
		r[i] = a[i] | b[i]
	}
	return r
}

func (a lanes8) and(b lanes8) lanes8 {
	var r lanes8
	for i := range r {
		r[i] = a[i] & b[i]
	}
	return r
}

func (a lanes8) xor(b lanes8) lanes8 {
	var r lanes8
	for i := range r {
		r[i] = a[i] ^ b[i]
	}
	return r
}

func (a lanes8) not() lanes8 {
	var r lanes8
	for i := range r {
		r[i] = ^a[i]
	}
	return r
}

func (a lanes8) add(b lanes8) lanes8 {
	var r lanes8
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

func (a lanes8) sub(b lanes8) lanes8 {
	var r lanes8
	for i := range r {
		r[i] = a[i] - b[i]
	}
	return r
}

func (a lanes8) shr1() lanes8 {
	var r lanes8
	for i := range r {
		r[i] = a[i] >> 1
	}
	return r
}

// gt reports, per lane, whether a[i] > b[i] (signed comparison, matching
// _mm_cmpgt_epi16 on values that never use the sign bit in practice).
func (a lanes8) gt(b lanes8) [fem.NumVPULanes]bool {
	var r [fem.NumVPULanes]bool
	for i := range r {
		r[i] = int16(a[i]) > int16(b[i])
	}
	return r
}

func (a lanes8) lt(b lanes8) [fem.NumVPULanes]bool {
	var r [fem.NumVPULanes]bool
	for i := range r {
		r[i] = int16(a[i]) < int16(b[i])
	}
	return r
}

func (a lanes8) min(b lanes8) lanes8 {
	var r lanes8
	for i := range r {
		if int16(a[i]) < int16(b[i]) {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

func allTrue(v [fem.NumVPULanes]bool) bool {
	for _, b := range v {
		if !b {
			return false
		}
	}
	return true
}
