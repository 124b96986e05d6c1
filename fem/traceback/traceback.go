// Package traceback reconstructs a CIGAR and an MD tag for a confirmed
// Mapping: re-run the banded DP caching its D0/HP columns, then walk
// backward from the read's last base picking match/mismatch/insertion/
// deletion off the cached bits, the way generate_alignment does it.
package traceback

import (
	"strconv"
	"strings"

	"github.com/howenz/FEM/fem"
)

// OpType is a CIGAR operation kind. Values match
// github.com/biogo/hts/sam.CigarMatch/CigarInsertion/CigarDeletion exactly
// (spec §4.5: M=0, I=1, D=2) so fem/bamrec can hand a Segment straight to
// sam.NewCigarOp without translation.
type OpType byte

const (
	OpMatch     OpType = 0
	OpInsertion OpType = 1
	OpDeletion  OpType = 2
)

// Segment is one run of a CIGAR: an operation and its length.
type Segment struct {
	Op  OpType
	Len int
}

// softClip is an internal-only bookkeeping op: a run of mismatches/
// insertions at the read's 3' end before the first confirmed match. It
// never appears in the Segment slice Align returns — it is always folded
// into the adjacent match run (or, for the degenerate case of a read with
// no confirmed match at all, promoted to a plain match run) before
// returning.
const softClip byte = 'S'

// Align reconstructs the CIGAR and MD tag for one confirmed Mapping.
// pattern is the same reference window BandedEditDistance/SIMD saw;
// text is the read in the direction that window was checked against.
// editDistance and endPositionOffset are the Mapping's own fields.
//
// Returns the CIGAR's reference start offset within pattern, the CIGAR
// itself (left to right, 5' to 3'), and the MD tag string.
func Align(args *fem.Args, pattern, text []byte, editDistance, endPositionOffset int) (mappingStartPosition int, cigar []Segment, mdTag string) {
	L := len(text)

	// Fast path: if the ungapped alignment at this end offset already has
	// zero mismatches, there's no need to re-run the DP at all.
	ungappedStart := endPositionOffset - L + 1
	if ungappedStart < 0 {
		panic(&fem.PreconditionError{Msg: "traceback: mapping start position underflow"})
	}
	mismatches := 0
	for i := 0; i < L; i++ {
		if text[i] != pattern[ungappedStart+i] {
			mismatches++
		}
	}
	if mismatches == 0 {
		cigar = []Segment{{Op: OpMatch, Len: L}}
		return ungappedStart, cigar, buildMDTag(pattern, text, ungappedStart, cigar)
	}

	d0s, hps := runCachedColumns(args, pattern, text)

	var segs []rawSeg
	segs, mappingStartPosition = runTraceback(pattern, text, d0s, hps, editDistance, endPositionOffset)
	cigar = finalize(segs)
	return mappingStartPosition, cigar, buildMDTag(pattern, text, mappingStartPosition, cigar)
}

// runCachedColumns runs the same banded recurrence as fem/bitvec, but
// records each column's D0 and HP instead of collapsing them into a single
// running error count — the traceback walks these back to front. This
// duplicates fem/bitvec's loop rather than sharing it with it, same as the
// original source keeps banded_edit_distance and generate_alignment as two
// separate passes over the band.
func runCachedColumns(args *fem.Args, pattern, text []byte) (d0s, hps []uint32) {
	band := args.BandWidth()
	L := len(text)

	var peq [fem.AlphabetSize]uint32
	for i := 0; i < band; i++ {
		peq[fem.CharToCode(pattern[i])] |= 1 << uint(i)
	}
	highBit := uint32(1) << uint(band)

	var vp, vn, x, d0, hn, hp uint32
	d0s = make([]uint32, L)
	hps = make([]uint32, L)
	for i := 0; i < L; i++ {
		peq[fem.CharToCode(pattern[i+band])] |= highBit

		x = peq[fem.CharToCode(text[i])] | vn
		d0 = ((vp + (x & vp)) ^ vp) | x
		hn = vp & d0
		hp = vn | ^(vp | d0)
		x = d0 >> 1
		vn = x & hp
		vp = hn | ^(x | hp)

		d0s[i] = d0
		hps[i] = hp

		for a := range peq {
			peq[a] >>= 1
		}
	}
	return d0s, hps
}

type rawSeg struct {
	op  byte
	len int
}

// runTraceback walks the cached columns back from the read's last base to
// its first, classifying each step as match/mismatch/insertion/deletion
// off the cached D0/HP bits, exactly as generate_alignment does. Segments
// are appended in traceback order (3' to 5'); finalize reverses them and
// folds a leading soft clip into the following run.
func runTraceback(pattern, text []byte, d0s, hps []uint32, editDistance, endPositionOffset int) (segs []rawSeg, mappingStartPosition int) {
	bitAt := func(vec []uint32, pos, bitIdx int) bool {
		return (vec[pos]>>uint(bitIdx))&1 == 1
	}

	patternBitPosition := endPositionOffset - len(text) + 1
	textPosition := len(text) - 1
	mappingEndPosition := endPositionOffset
	mappingStartPosition = patternBitPosition

	preOp := softClip
	preLen := 1
	numErrors := 0

	push := func(op byte, n int) {
		segs = append(segs, rawSeg{op: op, len: n})
	}

	// First step, unrolled: establishes the initial run. A deletion here
	// (landing on the very first read column with neither a match nor an
	// open D0 bit to explain it) is an impossible DP state.
	switch {
	case bitAt(d0s, textPosition, patternBitPosition) && pattern[mappingEndPosition] == text[textPosition]:
		textPosition--
		mappingEndPosition--
		preOp, preLen = 'M', 1
	case !bitAt(d0s, textPosition, patternBitPosition):
		textPosition--
		mappingEndPosition--
		numErrors++
		preOp, preLen = softClip, 1
	case bitAt(d0s, textPosition, patternBitPosition) && bitAt(hps, textPosition, patternBitPosition):
		textPosition--
		patternBitPosition++
		numErrors++
		mappingStartPosition++
		preOp, preLen = softClip, 1
	default:
		panic(&fem.PreconditionError{Msg: "traceback: impossible deletion at the read's 3' end"})
	}

	for textPosition >= 0 {
		if numErrors == editDistance {
			break
		}
		switch {
		case bitAt(d0s, textPosition, patternBitPosition) && pattern[mappingEndPosition] == text[textPosition]:
			textPosition--
			mappingEndPosition--
			if preOp != 'M' {
				push(preOp, preLen)
				preOp, preLen = 'M', 1
			} else {
				preLen++
			}
		case !bitAt(d0s, textPosition, patternBitPosition):
			textPosition--
			mappingEndPosition--
			numErrors++
			if preOp == softClip {
				preLen++
			} else if preOp != 'M' {
				push(preOp, preLen)
				preOp, preLen = 'M', 1
			} else {
				preLen++
			}
		case bitAt(d0s, textPosition, patternBitPosition) && bitAt(hps, textPosition, patternBitPosition):
			textPosition--
			patternBitPosition++
			numErrors++
			mappingStartPosition++
			if preOp == softClip {
				preLen++
			} else if preOp != 'I' {
				push(preOp, preLen)
				preOp, preLen = 'I', 1
			} else {
				preLen++
			}
		default: // deletion
			patternBitPosition--
			mappingEndPosition--
			numErrors++
			mappingStartPosition--
			if preOp != 'D' {
				push(preOp, preLen)
				preOp, preLen = 'D', 1
			} else {
				preLen++
			}
		}
	}

	if textPosition >= 0 {
		// Error budget exhausted with read left: everything remaining is
		// a match run.
		if preOp != 'M' {
			push(preOp, preLen)
			push('M', textPosition+1)
		} else {
			push('M', preLen+textPosition+1)
		}
	} else {
		push(preOp, preLen)
	}

	return segs, mappingStartPosition
}

// finalize reverses traceback-order segments into genomic (5' to 3') order
// and folds a leading soft clip (always segs[0] before reversal — the
// traceback never re-enters soft-clip mode once it leaves it) into the
// run that follows it.
func finalize(segs []rawSeg) []Segment {
	if len(segs) == 0 {
		return nil
	}
	if segs[0].op == softClip {
		if len(segs) > 1 {
			segs[1].len += segs[0].len
			segs = segs[1:]
		} else {
			// Degenerate case: the entire read is one unconfirmed run
			// with nothing to fold it into. Treat it as a match run
			// rather than emit an op this core never produces.
			segs[0].op = 'M'
		}
	}

	out := make([]Segment, len(segs))
	for i, s := range segs {
		j := len(segs) - 1 - i
		out[j] = Segment{Op: rawOpType(s.op), Len: s.len}
	}
	return out
}

func rawOpType(op byte) OpType {
	switch op {
	case 'M':
		return OpMatch
	case 'I':
		return OpInsertion
	case 'D':
		return OpDeletion
	default:
		panic(&fem.PreconditionError{Msg: "traceback: unreachable CIGAR operation"})
	}
}

// buildMDTag walks cigar alongside pattern (from mappingStartPosition) and
// text, emitting the standard MD tag: a run-length count before every
// mismatch and every deletion group, and a final count (zero included) at
// the end — e.g. "6A0" for a 7-base match run with the last base mismatched.
func buildMDTag(pattern, text []byte, mappingStartPosition int, cigar []Segment) string {
	var sb strings.Builder
	numMatches := 0
	readPos := 0
	refPos := mappingStartPosition

	flush := func() {
		sb.WriteString(strconv.Itoa(numMatches))
		numMatches = 0
	}

	for _, seg := range cigar {
		switch seg.Op {
		case OpMatch:
			for i := 0; i < seg.Len; i++ {
				if pattern[refPos] == text[readPos] {
					numMatches++
				} else {
					flush()
					sb.WriteByte(pattern[refPos])
				}
				refPos++
				readPos++
			}
		case OpInsertion:
			readPos += seg.Len
		case OpDeletion:
			flush()
			sb.WriteByte('^')
			for i := 0; i < seg.Len; i++ {
				sb.WriteByte(pattern[refPos])
				refPos++
			}
		}
	}
	flush()
	return sb.String()
}
