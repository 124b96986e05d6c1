// Package bitvec implements the scalar banded Myers bit-parallel
// edit-distance recurrence: a fixed (2e+1)-bit band carried in a single
// 32-bit word, advanced one diagonal per read column.
package bitvec

import "github.com/howenz/FEM/fem"

// BandedEditDistance confirms one candidate: it runs the band over pattern
// (a reference window of at least len(text)+2e bytes, window start already
// pulled back by e) against text (the read, in whichever orientation the
// caller chose), and returns the minimum edit distance achievable within
// the band together with the offset, within pattern, of the reference base
// aligned to the read's last base.
//
// A distance greater than args.ErrorThreshold means the candidate missed
// budget; the caller discards it, no error, no log line.
func BandedEditDistance(args *fem.Args, pattern, text []byte) (editDistance, mappingEndPosition int) {
	e := args.ErrorThreshold
	band := args.BandWidth()
	if len(pattern) < len(text)+band {
		panic(&fem.PreconditionError{Msg: "bitvec: reference window shorter than read length + 2*error_threshold"})
	}

	var peq [fem.AlphabetSize]uint32
	for i := 0; i < band; i++ {
		peq[fem.CharToCode(pattern[i])] |= 1 << uint(i)
	}
	highBit := uint32(1) << uint(band)

	var vp, vn, x, d0, hn, hp uint32
	numErrors := 0
	L := len(text)
	for i := 0; i < L; i++ {
		peq[fem.CharToCode(pattern[i+band])] |= highBit

		x = peq[fem.CharToCode(text[i])] | vn
		d0 = ((vp + (x & vp)) ^ vp) | x
		hn = vp & d0
		hp = vn | ^(vp | d0)
		x = d0 >> 1
		vn = x & hp
		vp = hn | ^(x | hp)

		numErrors += 1 - int(d0&1)
		if numErrors > 3*e {
			return e + 1, L - 1
		}

		for a := range peq {
			peq[a] >>= 1
		}
	}

	bandStart := L - 1
	minErrors := numErrors
	mappingEndPosition = bandStart
	for i := 0; i < band; i++ {
		numErrors += int((vp >> uint(i)) & 1)
		numErrors -= int((vn >> uint(i)) & 1)
		if numErrors < minErrors {
			minErrors = numErrors
			mappingEndPosition = bandStart + 1 + i
		}
	}
	return minErrors, mappingEndPosition
}
