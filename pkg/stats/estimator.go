package stats

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput indicates a parameter outside its documented domain.
// Callers should match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// DefaultConfidenceLevel is the conventional interval level used when
// callers have no reason to choose another.
const DefaultConfidenceLevel = 0.95

// Estimator models a Beta-distributed belief over a latent success
// probability.
//
// The counters alone fully determine the posterior, so callers can
// persist and restore an estimator by round-tripping Alpha and Beta in
// any format they like.
type Estimator struct {
	// Alpha counts pseudo-successes, including the uniform prior's 1.
	Alpha float64 `json:"alpha"`

	// Beta counts pseudo-failures, including the uniform prior's 1.
	Beta float64 `json:"beta"`
}

// NewEstimator creates an estimator with a uniform Beta(1,1) prior.
func NewEstimator() *Estimator {
	return &Estimator{Alpha: 1, Beta: 1}
}

// FromStats builds an estimator from aggregate counts: a fresh uniform
// prior updated with successes and total-successes failures.
//
// Returns ErrInvalidInput when total < successes or either is negative.
func FromStats(successes, total float64) (*Estimator, error) {
	if successes < 0 || total < 0 {
		return nil, fmt.Errorf("%w: negative counts (successes=%v, total=%v)", ErrInvalidInput, successes, total)
	}
	if total < successes {
		return nil, fmt.Errorf("%w: total %v < successes %v", ErrInvalidInput, total, successes)
	}
	e := NewEstimator()
	e.Update(successes, total-successes)
	return e, nil
}

// Update folds new observations into the posterior. Zero-valued inputs
// are fine; the counters never decrease except via Reset.
func (e *Estimator) Update(successes, failures float64) {
	e.Alpha += successes
	e.Beta += failures
}

// Reset discards all observations and restores the uniform prior.
func (e *Estimator) Reset() {
	e.Alpha = 1
	e.Beta = 1
}

// Total returns the number of pseudo-observations accumulated so far,
// including the two prior counts.
func (e *Estimator) Total() float64 {
	return e.Alpha + e.Beta
}

// Mean returns the posterior mean alpha/(alpha+beta).
func (e *Estimator) Mean() float64 {
	return e.Alpha / (e.Alpha + e.Beta)
}

// Variance returns the posterior variance of the Beta distribution.
func (e *Estimator) Variance() float64 {
	n := e.Alpha + e.Beta
	return (e.Alpha * e.Beta) / (n * n * (n + 1))
}

// ConfidenceInterval returns the (lower, upper) interval at the given
// level using the normal approximation, clamped to [0,1]. The interval
// width strictly shrinks as observations accumulate at a fixed
// success/failure balance.
//
// Returns ErrInvalidInput when level is not strictly between 0 and 1.
func (e *Estimator) ConfidenceInterval(level float64) (float64, float64, error) {
	if level <= 0 || level >= 1 {
		return 0, 0, fmt.Errorf("%w: confidence level %v outside (0,1)", ErrInvalidInput, level)
	}
	z := zScore(level)
	mu := e.Mean()
	sd := math.Sqrt(e.Variance())
	lower := math.Max(0, mu-z*sd)
	upper := math.Min(1, mu+z*sd)
	return lower, upper, nil
}

// RiskScore returns the approximate probability that the true success
// rate lies below threshold, clamped to [0,1].
//
// Degenerate posteriors (zero variance) collapse to a point mass: the
// result is 0 when the mean is at or above threshold, 1 otherwise.
func (e *Estimator) RiskScore(threshold float64) float64 {
	mu := e.Mean()
	sd := math.Sqrt(e.Variance())
	if sd == 0 {
		if mu >= threshold {
			return 0
		}
		return 1
	}
	p := normalCDF((threshold - mu) / sd)
	return math.Min(1, math.Max(0, p))
}

// normalCDF is the standard normal cumulative distribution function.
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// zTable holds the common two-sided z-scores so the usual levels stay
// exact rather than depending on bisection tolerance.
var zTable = map[float64]float64{
	0.90: 1.645,
	0.95: 1.960,
	0.99: 2.576,
}

// zScore returns the two-sided z-score for a confidence level in (0,1).
// Untabulated levels fall back to bisection on the normal CDF.
func zScore(level float64) float64 {
	if z, ok := zTable[level]; ok {
		return z
	}
	target := 1 - (1-level)/2
	lo, hi := 0.0, 4.0
	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		if normalCDF(mid) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
