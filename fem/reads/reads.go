// Package reads defines the read-batch collaborator the verification core
// consumes (spec §6): per-read forward/reverse-complement sequence,
// quality and name lookups by index. As with fem/genome, this is a
// lightweight reference implementation for tests and the bench harness,
// not a FASTQ-parsing production read source.
package reads

import "github.com/howenz/FEM/fem"

// Batch is the read accessor surface the core needs. Implementations own
// whatever storage/caching they like; the core only ever calls these five
// methods by index.
type Batch interface {
	Length(i int) int
	// Forward returns the read as sequenced, 5' to 3'.
	Forward(i int) []byte
	// ReverseComplement returns the reverse complement of Forward(i),
	// precomputed or computed on demand — the core treats it as already
	// available.
	ReverseComplement(i int) []byte
	// Quality returns Phred quality scores with the usual +33 ASCII
	// offset, one byte per base, same length and orientation as Forward.
	Quality(i int) []byte
	Name(i int) string
}

// InMemory is a slice-backed Batch that derives each read's reverse
// complement once, at construction, the way RevComp does in the teacher's
// read-loading path.
type InMemory struct {
	names []string
	seqs  [][]byte
	quals [][]byte
	rcs   [][]byte
}

// NewInMemory builds an InMemory batch from parallel name/sequence/quality
// slices.
func NewInMemory(names []string, seqs, quals [][]byte) *InMemory {
	if len(names) != len(seqs) || len(seqs) != len(quals) {
		panic(&fem.PreconditionError{Msg: "reads: names/sequences/qualities length mismatch"})
	}
	rcs := make([][]byte, len(seqs))
	for i, seq := range seqs {
		rcs[i] = reverseComplement(seq)
	}
	return &InMemory{names: names, seqs: seqs, quals: quals, rcs: rcs}
}

func (b *InMemory) Length(i int) int               { return len(b.seqs[i]) }
func (b *InMemory) Forward(i int) []byte           { return b.seqs[i] }
func (b *InMemory) ReverseComplement(i int) []byte { return b.rcs[i] }
func (b *InMemory) Quality(i int) []byte           { return b.quals[i] }
func (b *InMemory) Name(i int) string              { return b.names[i] }

// reverseComplement mirrors the teacher's RevComp: walk the read once,
// placing each base's complement at its mirrored position. Anything other
// than A/C/G/T complements to N, same fallback as the teacher.
func reverseComplement(read []byte) []byte {
	n := len(read)
	rc := make([]byte, n)
	for i, base := range read {
		j := n - 1 - i
		switch base {
		case 'A':
			rc[j] = 'T'
		case 'T':
			rc[j] = 'A'
		case 'C':
			rc[j] = 'G'
		case 'G':
			rc[j] = 'C'
		default:
			rc[j] = 'N'
		}
	}
	return rc
}
