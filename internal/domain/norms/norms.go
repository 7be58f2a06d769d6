// Package norms holds the read-only reference tables used by the scorers,
// the classifier and the error detector. Tables are plain values; callers
// get copies and cannot mutate the process-wide defaults.
package norms

// JointNorm describes the optimal angle of one joint and its tolerance.
type JointNorm struct {
	Optimal float64
	Sigma   float64
	Min     float64
	Max     float64
}

// Tiers holds four ascending thresholds. Low is the trigger; the rest feed
// severity bucketing.
type Tiers struct {
	Low      float64
	Medium   float64
	High     float64
	Critical float64
}

// Cutoffs returns the bucketing cutoffs for values that already exceeded Low.
func (t Tiers) Cutoffs() [3]float64 {
	return [3]float64{t.Medium, t.High, t.Critical}
}

// Weights are the composite weights of the six categories.
type Weights struct {
	ArmQuality     float64
	LegQuality     float64
	TrunkStability float64
	Symmetry       float64
	Efficiency     float64
	Consistency    float64
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.ArmQuality + w.LegQuality + w.TrunkStability + w.Symmetry + w.Efficiency + w.Consistency
}

// LegWeights weight the four leg joints.
type LegWeights struct {
	Knee  float64
	Ankle float64
	Hip   float64
	Shank float64
}

// Classification holds the lower bounds of each runner level.
type Classification struct {
	Elite        float64
	Advanced     float64
	Intermediate float64
	Beginner     float64
}

// Posture bounds the acceptable trunk angle.
type Posture struct {
	ForwardLeanLow   float64
	ForwardLeanHigh  float64
	BackwardLeanLow  float64
	BackwardLeanHigh float64
}

// ErrorThresholds drive the error detector.
type ErrorThresholds struct {
	ArmAsymmetry        Tiers
	LegAsymmetry        Tiers
	KneeInstability     Tiers
	TrunkInstability    Tiers
	VerticalOscillation Tiers
	Posture             Posture
	// ArmDriveMin is the average swing below which arm drive is insufficient.
	ArmDriveMin float64
}

// Table is the full set of reference values.
type Table struct {
	ArmSwing   JointNorm
	ElbowAngle JointNorm
	KneeAngle  JointNorm
	AnkleAngle JointNorm
	HipAngle   JointNorm
	ShankAngle JointNorm
	TrunkAngle JointNorm
	HeadAngle  JointNorm

	CV        Tiers
	Asymmetry Tiers

	Weights        Weights
	LegWeights     LegWeights
	Classification Classification
	Errors         ErrorThresholds

	ArmAsymmetryMaxPenalty float64
	LegAsymmetryMaxPenalty float64
}

var defaultTable = Table{
	ArmSwing:   JointNorm{Optimal: 150, Sigma: 10, Min: 130, Max: 170},
	ElbowAngle: JointNorm{Optimal: 110, Sigma: 15, Min: 90, Max: 130},
	KneeAngle:  JointNorm{Optimal: 115, Sigma: 20, Min: 60, Max: 170},
	AnkleAngle: JointNorm{Optimal: 100, Sigma: 10, Min: 80, Max: 120},
	HipAngle:   JointNorm{Optimal: 28, Sigma: 8, Min: 10, Max: 50},
	ShankAngle: JointNorm{Optimal: 55, Sigma: 18, Min: 0, Max: 110},
	TrunkAngle: JointNorm{Optimal: 175, Sigma: 3, Min: 165, Max: 180},
	HeadAngle:  JointNorm{Optimal: 137, Sigma: 5, Min: 125, Max: 145},

	CV:        Tiers{Low: 5, Medium: 10, High: 15, Critical: 20},
	Asymmetry: Tiers{Low: 5, Medium: 10, High: 15, Critical: 20},

	Weights: Weights{
		ArmQuality:     0.15,
		LegQuality:     0.25,
		TrunkStability: 0.15,
		Symmetry:       0.20,
		Efficiency:     0.15,
		Consistency:    0.10,
	},
	LegWeights:     LegWeights{Knee: 0.3, Ankle: 0.25, Hip: 0.25, Shank: 0.2},
	Classification: Classification{Elite: 85, Advanced: 70, Intermediate: 55, Beginner: 40},
	Errors: ErrorThresholds{
		ArmAsymmetry:        Tiers{Low: 10, Medium: 15, High: 20, Critical: 30},
		LegAsymmetry:        Tiers{Low: 8, Medium: 12, High: 18, Critical: 25},
		KneeInstability:     Tiers{Low: 15, Medium: 20, High: 25, Critical: 30},
		TrunkInstability:    Tiers{Low: 2, Medium: 3, High: 4, Critical: 5},
		VerticalOscillation: Tiers{Low: 10, Medium: 15, High: 20, Critical: 25},
		Posture: Posture{
			ForwardLeanLow:   170,
			ForwardLeanHigh:  165,
			BackwardLeanLow:  178,
			BackwardLeanHigh: 180,
		},
		ArmDriveMin: 135,
	},

	ArmAsymmetryMaxPenalty: 15,
	LegAsymmetryMaxPenalty: 20,
}

// Default returns a copy of the built-in reference table.
func Default() Table {
	return defaultTable
}
