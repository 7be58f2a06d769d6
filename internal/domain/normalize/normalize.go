// Package normalize provides the numeric primitives shared by the scorers
// and the error detector.
package normalize

import (
	"math"

	"github.com/okian/runform/internal/domain/model"
)

const (
	maxScore           = 100.0
	penaltyExponent    = 1.5
	centimetersInMeter = 100.0
)

// Gaussian scores how close value is to optimal on a bell curve of width
// sigma. The result is in [0, 100]; a non-positive sigma scores 100 only
// for an exact match.
func Gaussian(value, optimal, sigma float64) float64 {
	if sigma <= 0 {
		if value == optimal {
			return maxScore
		}
		return 0
	}
	z := (value - optimal) / sigma
	return Clamp(maxScore*math.Exp(-0.5*z*z), 0, maxScore)
}

// CV returns the coefficient of variation in percent. A zero mean yields 0.
func CV(std, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return std / math.Abs(mean) * 100
}

// AsymmetryIndex is the left/right difference relative to their average, in
// percent, clamped to [0, 100]. A zero average yields 0.
func AsymmetryIndex(left, right float64) float64 {
	avg := (left + right) / 2
	if avg == 0 {
		return 0
	}
	return Clamp(math.Abs(left-right)/math.Abs(avg)*100, 0, maxScore)
}

// AsymmetryPenalty grows convexly with the asymmetry index up to maxPenalty.
func AsymmetryPenalty(index, maxPenalty float64) float64 {
	if index <= 0 {
		return 0
	}
	return maxPenalty * math.Pow(index/100, penaltyExponent)
}

// Bucket maps value onto a severity using three ascending cutoffs.
func Bucket(value float64, cutoffs [3]float64) model.Severity {
	switch {
	case value < cutoffs[0]:
		return model.SeverityLow
	case value < cutoffs[1]:
		return model.SeverityMedium
	case value < cutoffs[2]:
		return model.SeverityHigh
	default:
		return model.SeverityCritical
	}
}

// Round rounds value to the given number of decimals.
func Round(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// Mean averages values; an empty slice yields 0.
func Mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// BMI returns the body mass index for weight in kilograms and height in
// centimeters.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / centimetersInMeter
	return weightKg / (m * m)
}
