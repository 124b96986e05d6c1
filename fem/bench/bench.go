// Package bench is a reference driver for the verification core: it
// exercises VerifyAndEmit/ProcessMappings the way spec.md §5 says an
// external caller must — one worker per goroutine, each with its own
// scratch state, sharing the immutable Args/genome.Collection/
// reads.Batch plus the CandidateSource, which every worker calls
// concurrently — and is not itself a production pipeline. It mirrors the
// teacher's CallSNPs channel/WaitGroup worker pool (callsnp.go), adapted
// from SNP-calling to candidate verification.
package bench

import (
	"sync"

	"github.com/biogo/hts/sam"

	"github.com/howenz/FEM/fem"
	"github.com/howenz/FEM/fem/bamrec"
	"github.com/howenz/FEM/fem/genome"
	"github.com/howenz/FEM/fem/reads"
	"github.com/howenz/FEM/fem/verify"
)

// CandidateSource supplies the candidates a given read should be verified
// against in a given direction — the seed/FM-index stage spec.md places
// out of scope. Tests and the demo command use a trivial implementation;
// a real pipeline would plug in its own seed index here. RunPool calls
// Candidates from several goroutines at once, so it must be safe for
// concurrent use.
type CandidateSource interface {
	Candidates(readIndex int, direction fem.Direction) []fem.Candidate
}

// Job is one unit of work: verify and emit records for a single read.
type Job struct {
	ReadIndex int
}

// Result is one Job's outcome: either a set of records or the error that
// stopped it short.
type Result struct {
	ReadIndex int
	Records   []*sam.Record
	Err       error
}

// RunPool verifies every read in [0, readBatch count) across numWorkers
// goroutines and returns one Result per read, in no particular order — the
// caller sorts/merges downstream if order matters, same division of labor
// spec.md §5 draws between this core and its caller.
func RunPool(
	args *fem.Args,
	readBatch reads.Batch,
	numReads int,
	refs genome.Collection,
	refSet *bamrec.ReferenceSet,
	candidates CandidateSource,
	numWorkers int,
) []Result {
	jobs := make(chan Job, numReads)
	for i := 0; i < numReads; i++ {
		jobs <- Job{ReadIndex: i}
	}
	close(jobs)

	results := make(chan Result, numReads)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(args, readBatch, refs, refSet, candidates, jobs, results)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result, 0, numReads)
	for r := range results {
		out = append(out, r)
	}
	return out
}

// worker owns its own Mapping scratch slice for its whole lifetime,
// reusing it across reads instead of allocating per read — the hot-path,
// allocation-averse posture spec.md §5 asks of the core's callers.
func worker(
	args *fem.Args,
	readBatch reads.Batch,
	refs genome.Collection,
	refSet *bamrec.ReferenceSet,
	candidates CandidateSource,
	jobs <-chan Job,
	results chan<- Result,
) {
	var mappings []fem.Mapping
	for job := range jobs {
		mappings = mappings[:0]

		for _, dir := range [...]fem.Direction{fem.Positive, fem.Negative} {
			cands := candidates.Candidates(job.ReadIndex, dir)
			verify.VerifyAndEmit(args, readBatch, job.ReadIndex, dir, refs, cands, &mappings)
		}

		if len(mappings) == 0 {
			results <- Result{ReadIndex: job.ReadIndex}
			continue
		}

		recs, err := bamrec.ProcessMappings(args, readBatch, job.ReadIndex, refs, refSet, mappings)
		results <- Result{ReadIndex: job.ReadIndex, Records: recs, Err: err}
	}
}
