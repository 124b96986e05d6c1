// Package bamrec assembles the final per-mapping output: sort the
// confirmed Mappings for one read, reconstruct each survivor's CIGAR and
// MD tag, and emit a github.com/biogo/hts/sam.Record — the primary
// mapping carries sequence and quality, every other survivor is flagged
// Secondary and carries neither.
package bamrec

import (
	"fmt"

	"github.com/biogo/hts/sam"

	"github.com/howenz/FEM/fem"
	"github.com/howenz/FEM/fem/genome"
	"github.com/howenz/FEM/fem/reads"
	"github.com/howenz/FEM/fem/traceback"
	"github.com/howenz/FEM/fem/verify"
)

// ReferenceSet resolves a Collection's sequence indices to the
// *sam.Reference values a Record needs. It's a thin adapter kept separate
// from genome.Collection so genome stays free of a biogo/hts dependency.
type ReferenceSet struct {
	refs []*sam.Reference
}

// NewReferenceSet builds one *sam.Reference per sequence in refs, in
// order, naming each from refs.Name and sizing it from len(refs.Sequence).
func NewReferenceSet(refs genome.Collection) *ReferenceSet {
	set := &ReferenceSet{refs: make([]*sam.Reference, refs.NumSequences())}
	for i := range set.refs {
		idx := uint32(i)
		r, err := sam.NewReference(refs.Name(idx), "", "", len(refs.Sequence(idx)), "", nil)
		if err != nil {
			panic(&fem.PreconditionError{Msg: fmt.Sprintf("bamrec: building reference %q: %v", refs.Name(idx), err)})
		}
		set.refs[i] = r
	}
	return set
}

func (s *ReferenceSet) at(seqIndex uint32) *sam.Reference { return s.refs[seqIndex] }

// ProcessMappings sorts mappings (in place, by SortKey), reconstructs a
// CIGAR/MD/record for each, and returns them in sorted order: the first is
// the primary alignment, every other is Secondary. Mappings with
// EditDistance above args.ErrorThreshold have no business reaching this
// function — VerifyAndEmit never appends them — but a caller that merges
// mapping slices from elsewhere gets the same treatment spec §4.4
// describes: filtered at the boundary, not re-checked here.
func ProcessMappings(
	args *fem.Args,
	readBatch reads.Batch,
	readIndex int,
	refs genome.Collection,
	refSet *ReferenceSet,
	mappings []fem.Mapping,
) ([]*sam.Record, error) {
	verify.SortMappings(mappings)

	name := readBatch.Name(readIndex)
	forwardSeq := readBatch.Forward(readIndex)
	forwardQual := readBatch.Quality(readIndex)
	rawQual := make([]byte, len(forwardQual))
	for i, q := range forwardQual {
		rawQual[i] = q - 33
	}

	records := make([]*sam.Record, 0, len(mappings))
	for mi, m := range mappings {
		var text []byte
		if m.Direction == fem.Positive {
			text = readBatch.Forward(readIndex)
		} else {
			text = readBatch.ReverseComplement(readIndex)
		}

		seqIndex := m.CandidatePosition.RefIndex()
		window := refs.Sequence(seqIndex)[m.CandidatePosition.Offset():]

		localStart, cigar, mdTag := traceback.Align(args, window, text, m.EditDistance, m.EndPositionOffset)
		referenceStart := int(m.CandidatePosition.Offset()) + localStart

		co := make([]sam.CigarOp, len(cigar))
		for i, seg := range cigar {
			co[i] = sam.NewCigarOp(sam.CigarOpType(seg.Op), seg.Len)
		}

		var flags sam.Flags
		if m.Direction == fem.Negative {
			flags |= sam.Reverse
		}
		var seq, qual []byte
		if mi == 0 {
			seq, qual = forwardSeq, rawQual
		} else {
			flags |= sam.Secondary
		}

		rec, err := sam.NewRecord(name, refSet.at(seqIndex), nil, referenceStart, -1, 0, 255, co, seq, qual, nil)
		if err != nil {
			return nil, fmt.Errorf("bamrec: %s: %w", name, err)
		}
		rec.Flags = flags

		nmAux, err := sam.NewAux(sam.Tag{'N', 'M'}, m.EditDistance)
		if err != nil {
			return nil, fmt.Errorf("bamrec: %s: NM tag: %w", name, err)
		}
		mdAux, err := sam.NewAux(sam.Tag{'M', 'D'}, mdTag)
		if err != nil {
			return nil, fmt.Errorf("bamrec: %s: MD tag: %w", name, err)
		}
		rec.AuxFields = append(rec.AuxFields, nmAux, mdAux)

		records = append(records, rec)
	}

	return records, nil
}
