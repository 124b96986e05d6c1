// Package simd implements the 8-lane, 16-bit-wide banded Myers recurrence:
// the same band as fem/bitvec, but run lockstep across eight candidates at
// once against one shared read, with a collective early exit once every
// lane has blown its error budget.
package simd

import "github.com/howenz/FEM/fem"

// ReferenceCollection is the slice of the genome collaborator this package
// needs: random-access bytes for a reference sequence by index. See
// fem/genome for the full external interface and an in-memory
// implementation.
type ReferenceCollection interface {
	Sequence(seqIndex uint32) []byte
}

// BandedEditDistanceSIMD runs the band across exactly fem.NumVPULanes
// candidates against one read. editDistances is always overwritten in
// full. endPositions must be initialized by the caller to L-1 in every
// lane before the call — a lane's entry is only overwritten when the
// minimization walk finds a strictly better offset, mirroring the scalar
// form's "last column as the default, then improve".
func BandedEditDistanceSIMD(
	args *fem.Args,
	refs ReferenceCollection,
	text []byte,
	candidates [fem.NumVPULanes]fem.Candidate,
	editDistances *[fem.NumVPULanes]int16,
	endPositions *[fem.NumVPULanes]int16,
) {
	e := args.ErrorThreshold
	band := args.BandWidth()
	L := len(text)

	var windows [fem.NumVPULanes][]byte
	for k := 0; k < fem.NumVPULanes; k++ {
		seq := refs.Sequence(candidates[k].RefIndex())
		off := int(candidates[k].Offset())
		if off < 0 || off+L+band > len(seq) {
			panic(&fem.PreconditionError{Msg: "simd: reference window shorter than read length + 2*error_threshold"})
		}
		windows[k] = seq[off : off+L+band]
	}

	var peq [fem.AlphabetSize]lanes8
	for i := 0; i < band; i++ {
		for k := 0; k < fem.NumVPULanes; k++ {
			b := fem.CharToCode(windows[k][i])
			peq[b][k] |= uint16(1) << uint(i)
		}
	}
	highBitShift := uint(band)

	var vp, vn, x, d0, hn, hp lanes8
	errVec := lanes8{}
	threshold := broadcast(uint16(3 * e))
	lowBit := broadcast(1)

	for i := 0; i < L; i++ {
		for k := 0; k < fem.NumVPULanes; k++ {
			b := fem.CharToCode(windows[k][i+band])
			peq[b][k] |= uint16(1) << highBitShift
		}

		x = peq[fem.CharToCode(text[i])].or(vn)
		d0 = vp.add(x.and(vp)).xor(vp).or(x)
		hn = vp.and(d0)
		hp = vn.or(d0.or(vp).not())
		x = d0.shr1()
		vn = x.and(hp)
		vp = hn.or(x.or(hp).not())

		errVec = errVec.add(lowBit.sub(d0.and(lowBit)))

		if allTrue(errVec.gt(threshold)) {
			*editDistances = toInt16Array(errVec)
			return
		}

		for a := range peq {
			peq[a] = peq[a].shr1()
		}
	}

	bandStart := L - 1
	minErr := errVec
	for i := 0; i < band; i++ {
		lowVP := vp.and(lowBit)
		lowVN := vn.and(lowBit)
		errVec = errVec.add(lowVP).sub(lowVN)
		lt := errVec.lt(minErr)
		for k := 0; k < fem.NumVPULanes; k++ {
			if lt[k] {
				endPositions[k] = int16(bandStart + 1 + i)
			}
		}
		minErr = minErr.min(errVec)
		vp = vp.shr1()
		vn = vn.shr1()
	}
	*editDistances = toInt16Array(minErr)
}

func toInt16Array(v lanes8) [fem.NumVPULanes]int16 {
	var r [fem.NumVPULanes]int16
	for i, x := range v {
		r[i] = int16(x)
	}
	return r
}
