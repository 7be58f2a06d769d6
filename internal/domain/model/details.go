package model

// ArmQualityResult carries the arm scorer's sub-results.
type ArmQualityResult struct {
	Index            float64 `json:"arm_quality_index" yaml:"arm_quality_index"`
	Symmetry         float64 `json:"arm_symmetry" yaml:"arm_symmetry"`
	LeftScore        float64 `json:"left_arm_score" yaml:"left_arm_score"`
	RightScore       float64 `json:"right_arm_score" yaml:"right_arm_score"`
	AsymmetryIndex   float64 `json:"asymmetry_index" yaml:"asymmetry_index"`
	AsymmetryPenalty float64 `json:"asymmetry_penalty" yaml:"asymmetry_penalty"`
	LeftSwingScore   float64 `json:"left_swing_score" yaml:"left_swing_score"`
	LeftElbowScore   float64 `json:"left_elbow_score" yaml:"left_elbow_score"`
	RightSwingScore  float64 `json:"right_swing_score" yaml:"right_swing_score"`
	RightElbowScore  float64 `json:"right_elbow_score" yaml:"right_elbow_score"`
}

// LegSideScores are the per-joint scores of one leg.
type LegSideScores struct {
	Knee  float64 `json:"knee_score" yaml:"knee_score"`
	Ankle float64 `json:"ankle_score" yaml:"ankle_score"`
	Hip   float64 `json:"hip_score" yaml:"hip_score"`
	Shank float64 `json:"shank_score" yaml:"shank_score"`
}

// LegQualityResult carries the leg scorer's sub-results.
type LegQualityResult struct {
	Index            float64       `json:"leg_quality_index" yaml:"leg_quality_index"`
	Symmetry         float64       `json:"leg_symmetry" yaml:"leg_symmetry"`
	LeftScore        float64       `json:"left_leg_score" yaml:"left_leg_score"`
	RightScore       float64       `json:"right_leg_score" yaml:"right_leg_score"`
	AsymmetryIndex   float64       `json:"asymmetry_index" yaml:"asymmetry_index"`
	AsymmetryPenalty float64       `json:"asymmetry_penalty" yaml:"asymmetry_penalty"`
	Left             LegSideScores `json:"left" yaml:"left"`
	Right            LegSideScores `json:"right" yaml:"right"`
}

// TrunkStabilityResult carries the trunk scorer's sub-results.
type TrunkStabilityResult struct {
	Score            float64 `json:"trunk_stability_score" yaml:"trunk_stability_score"`
	AngleScore       float64 `json:"trunk_angle_score" yaml:"trunk_angle_score"`
	ConsistencyScore float64 `json:"trunk_consistency_score" yaml:"trunk_consistency_score"`
	HeadScore        float64 `json:"head_score" yaml:"head_score"`
	TrunkCV          float64 `json:"trunk_cv" yaml:"trunk_cv"`
}

// SymmetryResult carries the raw-mean symmetry split.
type SymmetryResult struct {
	Score         float64 `json:"symmetry_score" yaml:"symmetry_score"`
	ArmSymmetry   float64 `json:"arm_symmetry" yaml:"arm_symmetry"`
	LegSymmetry   float64 `json:"leg_symmetry" yaml:"leg_symmetry"`
	ArmAsymmetry  float64 `json:"arm_asymmetry" yaml:"arm_asymmetry"`
	LegAsymmetry  float64 `json:"leg_asymmetry" yaml:"leg_asymmetry"`
	KneeAsymmetry float64 `json:"knee_asymmetry" yaml:"knee_asymmetry"`
}

// EfficiencyResult carries the efficiency scorer's sub-results.
type EfficiencyResult struct {
	Score              float64 `json:"efficiency_score" yaml:"efficiency_score"`
	VerticalEfficiency float64 `json:"vertical_efficiency" yaml:"vertical_efficiency"`
	ArmEfficiency      float64 `json:"arm_efficiency" yaml:"arm_efficiency"`
	KneeEfficiency     float64 `json:"knee_efficiency" yaml:"knee_efficiency"`
	MovementEconomy    float64 `json:"movement_economy" yaml:"movement_economy"`
	EnergyWastePenalty float64 `json:"energy_waste_penalty" yaml:"energy_waste_penalty"`
	BMIAdjustment      float64 `json:"bmi_adjustment" yaml:"bmi_adjustment"`
	HeightAdjustment   float64 `json:"height_adjustment" yaml:"height_adjustment"`
}

// ConsistencyResult carries the consistency scorer's sub-results.
type ConsistencyResult struct {
	Score              float64 `json:"consistency_score" yaml:"consistency_score"`
	OverallCV          float64 `json:"overall_cv" yaml:"overall_cv"`
	VariabilityPenalty float64 `json:"variability_penalty" yaml:"variability_penalty"`
}

// AnalysisDetails groups every scorer's diagnostics.
type AnalysisDetails struct {
	Arm         ArmQualityResult     `json:"arm_quality" yaml:"arm_quality"`
	Leg         LegQualityResult     `json:"leg_quality" yaml:"leg_quality"`
	Trunk       TrunkStabilityResult `json:"trunk_stability" yaml:"trunk_stability"`
	Symmetry    SymmetryResult       `json:"symmetry" yaml:"symmetry"`
	Efficiency  EfficiencyResult     `json:"efficiency" yaml:"efficiency"`
	Consistency ConsistencyResult    `json:"consistency" yaml:"consistency"`
}
