package model

// Synthetic statistics used when only joint means are known.
const (
	simpleSampleCount       = 80
	simpleDefaultVariation  = 0.05
	simpleKneeVariation     = 0.10
	simpleTrunkVariation    = 0.01
	simpleHeadVariation     = 0.02
	simpleMaxVariationRatio = 1.0
)

// SimpleInput is a means-only description of a run. Absent means fall back
// to typical values; hip and shank angles are always synthesized.
type SimpleInput struct {
	LeftArmSwingMean    *float64 `json:"left_arm_swing_mean,omitempty" yaml:"left_arm_swing_mean,omitempty"`
	RightArmSwingMean   *float64 `json:"right_arm_swing_mean,omitempty" yaml:"right_arm_swing_mean,omitempty"`
	LeftElbowAngleMean  *float64 `json:"left_elbow_angle_mean,omitempty" yaml:"left_elbow_angle_mean,omitempty"`
	RightElbowAngleMean *float64 `json:"right_elbow_angle_mean,omitempty" yaml:"right_elbow_angle_mean,omitempty"`
	LeftKneeAngleMean   *float64 `json:"left_knee_angle_mean,omitempty" yaml:"left_knee_angle_mean,omitempty"`
	RightKneeAngleMean  *float64 `json:"right_knee_angle_mean,omitempty" yaml:"right_knee_angle_mean,omitempty"`
	LeftAnkleAngleMean  *float64 `json:"left_ankle_angle_mean,omitempty" yaml:"left_ankle_angle_mean,omitempty"`
	RightAnkleAngleMean *float64 `json:"right_ankle_angle_mean,omitempty" yaml:"right_ankle_angle_mean,omitempty"`
	TrunkAngleMean      *float64 `json:"trunk_angle_mean,omitempty" yaml:"trunk_angle_mean,omitempty"`
	HeadAngleMean       *float64 `json:"head_angle_mean,omitempty" yaml:"head_angle_mean,omitempty"`
	WeightKg            *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	HeightCm            *float64 `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	// KneeVariability is the knee std/mean ratio, 0.10 when unset.
	KneeVariability *float64 `json:"knee_variability,omitempty" yaml:"knee_variability,omitempty"`
	// TrunkStability is the trunk std/mean ratio, 0.01 when unset.
	TrunkStability *float64 `json:"trunk_stability,omitempty" yaml:"trunk_stability,omitempty"`
}

// Validate checks that the means are finite and the variation ratios in
// range. Everything else is validated on the expanded input.
func (s SimpleInput) Validate() error {
	means := []struct {
		field string
		value *float64
	}{
		{"left_arm_swing_mean", s.LeftArmSwingMean},
		{"right_arm_swing_mean", s.RightArmSwingMean},
		{"left_elbow_angle_mean", s.LeftElbowAngleMean},
		{"right_elbow_angle_mean", s.RightElbowAngleMean},
		{"left_knee_angle_mean", s.LeftKneeAngleMean},
		{"right_knee_angle_mean", s.RightKneeAngleMean},
		{"left_ankle_angle_mean", s.LeftAnkleAngleMean},
		{"right_ankle_angle_mean", s.RightAnkleAngleMean},
		{"trunk_angle_mean", s.TrunkAngleMean},
		{"head_angle_mean", s.HeadAngleMean},
	}
	for _, m := range means {
		if m.value != nil && !finite(*m.value) {
			return invalid(m.field, "must be a finite number")
		}
	}
	ratios := []struct {
		field string
		value *float64
	}{
		{"knee_variability", s.KneeVariability},
		{"trunk_stability", s.TrunkStability},
	}
	for _, r := range ratios {
		if r.value == nil {
			continue
		}
		if !finite(*r.value) || *r.value < 0 || *r.value >= simpleMaxVariationRatio {
			return invalid(r.field, "must be in [0, 1), got "+formatFloat(*r.value))
		}
	}
	return nil
}

// Expand builds a full RunBiomechanicsInput with synthetic statistics.
func (s SimpleInput) Expand() RunBiomechanicsInput {
	knee := ratioOr(s.KneeVariability, simpleKneeVariation)
	trunk := ratioOr(s.TrunkStability, simpleTrunkVariation)

	return RunBiomechanicsInput{
		LeftArm: ArmData{
			ArmSwing:   synthesize(valueOr(s.LeftArmSwingMean, 150), simpleDefaultVariation),
			ElbowAngle: synthesize(valueOr(s.LeftElbowAngleMean, 110), simpleDefaultVariation),
		},
		RightArm: ArmData{
			ArmSwing:   synthesize(valueOr(s.RightArmSwingMean, 145), simpleDefaultVariation),
			ElbowAngle: synthesize(valueOr(s.RightElbowAngleMean, 110), simpleDefaultVariation),
		},
		LeftLeg: LegData{
			KneeAngle:  synthesize(valueOr(s.LeftKneeAngleMean, 115), knee),
			AnkleAngle: synthesize(valueOr(s.LeftAnkleAngleMean, 100), simpleDefaultVariation),
			HipAngle:   synthesize(25, simpleDefaultVariation),
			ShankAngle: synthesize(55, simpleDefaultVariation),
		},
		RightLeg: LegData{
			KneeAngle:  synthesize(valueOr(s.RightKneeAngleMean, 111), knee),
			AnkleAngle: synthesize(valueOr(s.RightAnkleAngleMean, 104), simpleDefaultVariation),
			HipAngle:   synthesize(28, simpleDefaultVariation),
			ShankAngle: synthesize(54, simpleDefaultVariation),
		},
		Trunk:    TrunkData{TrunkAngle: synthesize(valueOr(s.TrunkAngleMean, 174), trunk)},
		Head:     HeadData{HeadAngle: synthesize(valueOr(s.HeadAngleMean, 136), simpleHeadVariation)},
		WeightKg: s.WeightKg,
		HeightCm: s.HeightCm,
	}
}

func synthesize(mean, variation float64) BiomechanicsMetric {
	spread := mean * variation
	std := spread / 2
	if std < 0 {
		std = -std
	}
	return BiomechanicsMetric{
		Min:   mean - spread,
		Max:   mean + spread,
		Mean:  mean,
		Std:   std,
		Count: simpleSampleCount,
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// ratioOr treats zero as unset.
func ratioOr(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}
