package verify

import "github.com/howenz/FEM/fem"

// radixBits is the digit width for one LSD radix sort pass. 8 bits means
// 8 passes cover a full 64-bit key — the same digit width the original
// source's KRADIX_SORT_INIT(mapping, Mapping, MappingSortKey, 8) uses.
const radixBits = 8
const radixBuckets = 1 << radixBits
const radixPasses = 64 / radixBits

// SortMappings orders mappings in place by Mapping.SortKey ascending, so
// the lowest edit distance, then forward strand before reverse, then
// leftmost position, sort first — an LSD radix sort over the packed
// 64-bit key, stable across passes so ties keep their relative order.
func SortMappings(mappings []fem.Mapping) {
	n := len(mappings)
	if n < 2 {
		return
	}
	buf := make([]fem.Mapping, n)
	src, dst := mappings, buf

	var counts [radixBuckets]int
	for pass := 0; pass < radixPasses; pass++ {
		shift := uint(pass * radixBits)

		for i := range counts {
			counts[i] = 0
		}
		for _, m := range src {
			digit := (m.SortKey() >> shift) & (radixBuckets - 1)
			counts[digit]++
		}

		sum := 0
		for i := 0; i < radixBuckets; i++ {
			c := counts[i]
			counts[i] = sum
			sum += c
		}

		for _, m := range src {
			digit := (m.SortKey() >> shift) & (radixBuckets - 1)
			dst[counts[digit]] = m
			counts[digit]++
		}

		src, dst = dst, src
	}
	// radixPasses is even, so src is back to aliasing the caller's slice.
}
