//----------------------------------------------------------------------------------------
// fembench - reference driver for the FEM verification/alignment core.
//----------------------------------------------------------------------------------------

package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/howenz/FEM/fem"
	"github.com/howenz/FEM/fem/bamrec"
	"github.com/howenz/FEM/fem/bench"
	"github.com/howenz/FEM/fem/genome"
	"github.com/howenz/FEM/fem/reads"
)

func main() {
	fmt.Println("fembench - demonstration driver for the FEM verification/alignment core.")

	errorThreshold := flag.Int("e", 4, "maximum edit distance a candidate may have and still be kept")
	numReads := flag.Int("n", 1000, "number of synthetic reads to generate and verify")
	readLength := flag.Int("l", 100, "length of each synthetic read")
	genomeLength := flag.Int("g", 200000, "length of the synthetic reference sequence")
	candidatesPerRead := flag.Int("c", 32, "number of candidates generated per read per direction")
	routineNum := flag.Int("t", 0, "number of worker goroutines (0: one per CPU)")
	flag.Parse()

	if *routineNum <= 0 {
		*routineNum = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*routineNum)

	args := fem.NewArgs(*errorThreshold)

	start := time.Now()
	refs, readBatch, source := buildSyntheticWorkload(*genomeLength, *numReads, *readLength, *candidatesPerRead, *errorThreshold)
	log.Printf("time for building synthetic workload:\t%s", time.Since(start))

	refSet := bamrec.NewReferenceSet(refs)

	fmt.Println("Verifying candidates and assembling alignment records...")
	start = time.Now()
	results := bench.RunPool(args, readBatch, *numReads, refs, refSet, source, *routineNum)
	log.Printf("time for verifying %d reads across %d workers:\t%s", *numReads, *routineNum, time.Since(start))

	mapped, records := 0, 0
	for _, r := range results {
		if r.Err != nil {
			log.Printf("read %d: %v", r.ReadIndex, r.Err)
			continue
		}
		if len(r.Records) > 0 {
			mapped++
			records += len(r.Records)
		}
	}
	fmt.Printf("Done. %d/%d reads mapped, %d records emitted.\n", mapped, *numReads, records)
}

// syntheticCandidates hands back, for every (read, direction), a fixed
// number of candidate windows scattered across the synthetic genome. It
// stands in for the k-mer/FM-index seed stage spec.md places out of
// scope — good enough to drive the worker pool end to end, not a real
// seed finder.
type syntheticCandidates struct {
	genomeLen int
	perRead   int
	band      int
	mu        sync.Mutex // guards rng: every pool worker calls Candidates
	rng       *rand.Rand
}

func (s *syntheticCandidates) Candidates(readIndex int, direction fem.Direction) []fem.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fem.Candidate, s.perRead)
	for i := range out {
		offset := s.rng.Intn(s.genomeLen - s.band)
		out[i] = fem.PackCandidate(0, uint32(offset))
	}
	return out
}

func buildSyntheticWorkload(genomeLen, numReads, readLength, candidatesPerRead, errorThreshold int) (*genome.InMemory, *reads.InMemory, *syntheticCandidates) {
	rng := rand.New(rand.NewSource(1))
	bases := [...]byte{'A', 'C', 'G', 'T'}

	sequence := make([]byte, genomeLen)
	for i := range sequence {
		sequence[i] = bases[rng.Intn(len(bases))]
	}
	refs := genome.NewInMemory([]string{"synthetic"}, [][]byte{sequence})

	names := make([]string, numReads)
	seqs := make([][]byte, numReads)
	quals := make([][]byte, numReads)
	for i := range names {
		names[i] = fmt.Sprintf("read%d", i)
		start := rng.Intn(genomeLen - readLength)
		seq := make([]byte, readLength)
		copy(seq, sequence[start:start+readLength])
		seqs[i] = seq

		qual := make([]byte, readLength)
		for j := range qual {
			qual[j] = 'I'
		}
		quals[i] = qual
	}
	readBatch := reads.NewInMemory(names, seqs, quals)

	source := &syntheticCandidates{
		genomeLen: genomeLen,
		perRead:   candidatesPerRead,
		band:      readLength + 2*errorThreshold,
		rng:       rng,
	}
	return refs, readBatch, source
}
