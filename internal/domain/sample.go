package domain

import (
	"math/rand/v2"
	"slices"
)

// Sample deterministically selects min(n, len(rows)) rows using seed. The
// same input and seed always yield the same rows, kept in their input order.
func Sample[T any](rows []T, n int, seed uint64) []T {
	if n < 0 {
		n = 0
	}
	if n >= len(rows) {
		return slices.Clone(rows)
	}

	// Partial Fisher-Yates over the index space; the first n slots hold
	// the selection.
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	picked := idx[:n]
	slices.Sort(picked)

	out := make([]T, n)
	for i, k := range picked {
		out[i] = rows[k]
	}
	return out
}
