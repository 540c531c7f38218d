// Package exact is the baseline cardinality-estimation strategy: the
// sampler's scaled raw count, unperturbed. Named to mirror the teacher's
// algorithms/exact package, which plays the same "no privacy, exact
// counting" role for its own algorithm registry.
package exact

// Count returns count unmodified — the strategy pkg/sampler/ledp trades
// accuracy against for a differential-privacy guarantee.
func Count(count float64) float64 {
	return count
}
