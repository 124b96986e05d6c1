// Package genome defines the reference-genome collaborator the
// verification core consumes (spec §6): random-access bytes by sequence
// index and offset. This package is deliberately thin — it exists so the
// core is buildable and testable on its own, not as a production reference
// loader (FASTA/2bit parsing, mmap'd indices and the like stay external).
package genome

import "github.com/howenz/FEM/fem"

// Collection is the read-only view of a reference genome the core needs:
// enough to slice out a candidate's window and to name a sequence when
// assembling a record.
type Collection interface {
	// Sequence returns the full base sequence for seqIndex. Callers slice
	// the window they need out of it; the interface itself carries no
	// windowing logic (InMemory.Window is an extra convenience).
	Sequence(seqIndex uint32) []byte
	// Name returns the sequence's identifier, used as the SAM reference
	// name.
	Name(seqIndex uint32) string
	// NumSequences returns how many sequences the collection holds.
	NumSequences() int
}

// InMemory is a slice-backed Collection: every sequence held resident, no
// I/O. Good enough for tests and the bench harness; a real deployment
// would back this with an indexed FASTA or 2bit file.
type InMemory struct {
	names []string
	seqs  [][]byte
}

// NewInMemory builds an InMemory collection from parallel name/sequence
// slices. Panics (a precondition violation) if the slices don't line up —
// this mirrors the core's own stance that a malformed caller contract is
// fatal, not something to recover from silently.
func NewInMemory(names []string, seqs [][]byte) *InMemory {
	if len(names) != len(seqs) {
		panic(&fem.PreconditionError{Msg: "genome: names and sequences length mismatch"})
	}
	return &InMemory{names: names, seqs: seqs}
}

func (c *InMemory) Sequence(seqIndex uint32) []byte { return c.seqs[seqIndex] }
func (c *InMemory) Name(seqIndex uint32) string     { return c.names[seqIndex] }
func (c *InMemory) NumSequences() int               { return len(c.seqs) }

// Window returns the length-byte slice of seqIndex starting at offset,
// panicking (precondition violation) if it would run off the end of the
// sequence. Convenience for callers that want bounds checking done once
// instead of re-deriving it at every call site.
func (c *InMemory) Window(seqIndex uint32, offset uint32, length int) []byte {
	seq := c.Sequence(seqIndex)
	start := int(offset)
	if start < 0 || start+length > len(seq) {
		panic(&fem.PreconditionError{Msg: "genome: window out of bounds"})
	}
	return seq[start : start+length]
}
