// Package shuffle orders questions and answers for presentation.
package shuffle

import "math/rand/v2"

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Unseeded draws from the process-wide generator, so every call may produce
// a different order.
func Unseeded() Source { return globalSource{} }

// Seeded returns a deterministic source; equal seeds give equal orders.
func Seeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle returns a uniformly permuted copy of items. The input is not modified.
func Shuffle[T any](items []T) []T {
	return With(Unseeded(), items)
}

// With permutes a copy of items using src (Fisher-Yates, last index down to 1).
func With[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
