// Package ledp is the privacy-preserving cardinality-estimation
// strategy: it perturbs an estimated count, after the sampler has scaled
// it, with two-sided geometric noise, trading estimate accuracy for a
// local-differential-privacy guarantee on the underlying data graph.
//
// Adapted from the teacher's algorithms/noise/geometric.go (itself
// adapted from Google's differential-privacy/go/v2 laplace_noise.go):
// that generator is reused as-is here rather than duplicated, since it
// is already a generic, domain-agnostic statistical primitive with
// nothing teacher-specific to adapt.
package ledp

import "github.com/mundrapranay/patternplan/algorithms/noise"

// Perturb adds a two-sided geometric noise draw (parameter lambda) to
// count, floored at zero since a cardinality estimate cannot be
// negative. lambda <= 0 disables perturbation.
func Perturb(count float64, lambda float64) float64 {
	if lambda <= 0 {
		return count
	}
	g := noise.NewGeomDistribution(lambda)
	noisy := count + float64(g.TwoSidedGeometric())
	if noisy < 0 {
		return 0
	}
	return noisy
}
