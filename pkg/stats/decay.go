package stats

import (
	"fmt"
	"math"
)

// Decay returns the exponential decay multiplier for an observation of
// the given age: exp(-ln2 * age / halfLife). Age zero yields exactly 1,
// age equal to the half-life yields 0.5, twice the half-life 0.25.
//
// Age and half-life must share a unit; the function holds no notion of
// "now", so callers compute the age themselves. Negative ages are
// accepted and produce a multiplier above 1 — future-dated entries are
// not penalized.
//
// Returns ErrInvalidInput when halfLife is not strictly positive.
func Decay(age, halfLife float64) (float64, error) {
	if halfLife <= 0 {
		return 0, fmt.Errorf("%w: half-life %v must be positive", ErrInvalidInput, halfLife)
	}
	return math.Exp(-math.Ln2 * age / halfLife), nil
}

// WeightedScore discounts a base score by the decay multiplier for the
// given age and half-life.
func WeightedScore(base, age, halfLife float64) (float64, error) {
	d, err := Decay(age, halfLife)
	if err != nil {
		return 0, err
	}
	return base * d, nil
}
