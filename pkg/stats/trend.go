package stats

// Direction labels the outcome of a trend test.
type Direction string

const (
	// Increasing indicates a strong upward monotonic trend (tau > 0.5).
	Increasing Direction = "increasing"

	// Decreasing indicates a strong downward monotonic trend (tau < -0.5).
	Decreasing Direction = "decreasing"

	// Stable indicates no strong trend, or too few observations to claim one.
	Stable Direction = "stable"
)

// trendThreshold is the |tau| above which a sequence is labeled
// increasing or decreasing.
const trendThreshold = 0.5

// Trend runs a simplified Mann-Kendall test over an ordered sequence of
// observations. The sequence represents time order, not sorted order.
//
// Every index pair i<j is classified as concordant (values[j] >
// values[i]), discordant (values[j] < values[i]), or tied. The returned
// tau is (concordant - discordant) normalized by the pair count, in
// [-1,1].
//
// Sequences with fewer than three values always classify Stable with tau
// 0 regardless of content: two points are not evidence of a trend.
// All-equal sequences likewise classify Stable with tau 0.
func Trend(values []float64) (float64, Direction) {
	n := len(values)
	if n < 3 {
		return 0, Stable
	}

	concordant, discordant := 0, 0
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case values[j] > values[i]:
				concordant++
			case values[j] < values[i]:
				discordant++
			}
		}
	}

	pairs := float64(n*(n-1)) / 2
	tau := float64(concordant-discordant) / pairs

	switch {
	case tau > trendThreshold:
		return tau, Increasing
	case tau < -trendThreshold:
		return tau, Decreasing
	default:
		return tau, Stable
	}
}
