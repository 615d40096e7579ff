// Package features provides the shared feature-normalization vocabulary
// every scorer in the risk pipeline builds on. All helpers are pure and
// defensive: non-finite inputs map to 0 and denominators are guarded, so
// downstream weighted sums can never propagate NaN.
package features

import "math"

// Clamp bounds value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Normalize maps value into [0,1] over [min, max] with clamping.
// Non-finite input returns 0.
func Normalize(value, min, max float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	if max == min {
		return 0
	}
	return Clamp((value-min)/(max-min), 0, 1)
}

// InverseNormalize maps value into [0,1] with higher raw values producing
// lower risk contributions.
func InverseNormalize(value, min, max float64) float64 {
	return 1 - Normalize(value, min, max)
}

// Bounded rounds value to 2 decimals and clamps it to [0,100].
func Bounded(value float64) float64 {
	return BoundedIn(value, 0, 100)
}

// BoundedIn rounds value to 2 decimals and clamps it to [min, max].
func BoundedIn(value, min, max float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return min
	}
	return Clamp(Round2(value), min, max)
}

// Round2 rounds to 2 decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Round4 rounds to 4 decimal places.
func Round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation around avg.
// Fewer than two values yields 0.
func StdDev(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		diff := v - avg
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// ZScore returns (value-avg)/sigma, 0 when sigma is 0.
func ZScore(value, avg, sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	return (value - avg) / sigma
}

// Pearson returns the Pearson correlation coefficient over the common
// prefix of xs and ys, rounded to 2 decimals. Series shorter than 2 or with
// zero variance return 0.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n < 2 {
		return 0
	}

	mx := Mean(xs[:n])
	my := Mean(ys[:n])

	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}

	denom := math.Sqrt(vx * vy)
	if denom == 0 {
		return 0
	}
	return Round2(cov / denom)
}
