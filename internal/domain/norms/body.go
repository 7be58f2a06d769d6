package norms

import "math"

// Weight categories by BMI.
const (
	WeightUnderweight = "underweight"
	WeightNormal      = "normal"
	WeightOverweight  = "overweight"
	WeightObese       = "obese"
)

const (
	baseCadence         = 180
	cadenceStep         = 2
	cadenceBandCm       = 5.0
	cadenceShortBoundCm = 170.0
	cadenceTallBoundCm  = 180.0
)

// WeightCategory buckets a BMI value.
func WeightCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return WeightUnderweight
	case bmi < 25:
		return WeightNormal
	case bmi < 30:
		return WeightOverweight
	default:
		return WeightObese
	}
}

// BMIAdjustment is the efficiency bonus or penalty for a BMI value.
// Runners in the 19-24 band get a bonus; deviations cost progressively more.
func BMIAdjustment(bmi float64) float64 {
	switch {
	case bmi >= 19 && bmi <= 24:
		return 5
	case bmi >= 17 && bmi < 19:
		return -2
	case bmi > 24 && bmi <= 27:
		return -3
	case bmi > 27 && bmi <= 30:
		return -8
	case bmi > 30:
		return -15
	default:
		return -5
	}
}

// HeightAdjustment is the vertical-efficiency credit for a runner's height.
func HeightAdjustment(heightCm float64) float64 {
	switch {
	case heightCm >= 185:
		return 3
	case heightCm >= 175:
		return 1
	case heightCm < 160:
		return -2
	default:
		return 0
	}
}

// RecommendedCadence returns steps per minute for a runner's height.
func RecommendedCadence(heightCm float64) int {
	switch {
	case heightCm < cadenceShortBoundCm:
		bands := int(math.Floor((cadenceShortBoundCm - heightCm) / cadenceBandCm))
		return baseCadence + bands*cadenceStep
	case heightCm > cadenceTallBoundCm:
		bands := int(math.Floor((heightCm - cadenceTallBoundCm) / cadenceBandCm))
		return baseCadence - bands*cadenceStep
	default:
		return baseCadence
	}
}
