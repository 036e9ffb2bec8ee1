// Package stats provides confidence-aware statistics over sparse
// success/failure observations.
//
// The package has three independent primitives:
//
//   - Estimator: a Beta-Bernoulli posterior over a latent success
//     probability, built from success/failure counts. Exposes the
//     posterior mean, a normal-approximation confidence interval, and a
//     one-sided risk probability.
//   - Decay: exponential temporal decay parameterized by a half-life,
//     used to discount aged observations.
//   - Trend: a simplified Mann-Kendall test reporting the direction and
//     strength of a monotonic trend in an ordered sequence.
//
// # Error Handling
//
// Invalid parameters (non-positive half-life, total < successes,
// confidence level outside (0,1)) fail immediately with ErrInvalidInput.
// All other unusual inputs are defined, not erroneous: a fresh estimator
// has mean 0.5, fewer than three trend observations classify as stable,
// and so on.
//
// # Concurrency
//
// Estimator instances hold caller-owned state and provide no internal
// locking. Callers that share a single instance across goroutines must
// serialize access themselves; independent instances are independent.
package stats
