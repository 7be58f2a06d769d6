package scoring

import (
	"math"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/normalize"
	"github.com/okian/runform/internal/domain/norms"
)

// Trunk stability mix and the target trunk CV.
const (
	trunkAngleWeight       = 0.4
	trunkConsistencyWeight = 0.4
	headWeight             = 0.2
	trunkTargetCV          = 1.0
	trunkCVSigma           = 5.0
)

// Symmetry split between arms and legs.
const (
	armSymmetryWeight = 0.4
	legSymmetryWeight = 0.6
)

// Efficiency targets, in CV percent.
const (
	hipTargetCV         = 22.0
	armComfortCV        = 8.0
	kneeTargetCV        = 16.0
	hipWasteCV          = 25.0
	armWasteCV          = 10.0
	kneeWasteCV         = 20.0
	verticalWeight      = 0.4
	armEconomyWeight    = 0.3
	kneeEconomyWeight   = 0.3
	wasteMultiplier     = 1.5
	maxEnergyWaste      = 30.0
	verticalSlope       = 2.0
	armSlope            = 5.0
	kneeSlope           = 3.0
	heightEconomyWeight = 0.4
)

// Consistency curve breakpoints.
const (
	rigidCVBound    = 5.0
	variableCVBound = 12.0
)

// ArmQuality scores both arms and penalizes the difference between them.
func ArmQuality(left, right model.ArmData, t norms.Table) model.ArmQualityResult {
	r := model.ArmQualityResult{
		LeftSwingScore:  jointScore(left.ArmSwing, t.ArmSwing),
		LeftElbowScore:  jointScore(left.ElbowAngle, t.ElbowAngle),
		RightSwingScore: jointScore(right.ArmSwing, t.ArmSwing),
		RightElbowScore: jointScore(right.ElbowAngle, t.ElbowAngle),
	}
	r.LeftScore = normalize.Mean(r.LeftSwingScore, r.LeftElbowScore)
	r.RightScore = normalize.Mean(r.RightSwingScore, r.RightElbowScore)
	r.AsymmetryIndex = normalize.AsymmetryIndex(r.LeftScore, r.RightScore)
	r.Symmetry = 100 - r.AsymmetryIndex
	r.AsymmetryPenalty = normalize.AsymmetryPenalty(r.AsymmetryIndex, t.ArmAsymmetryMaxPenalty)
	r.Index = math.Max(0, normalize.Mean(r.LeftScore, r.RightScore)-r.AsymmetryPenalty)
	return r
}

// LegQuality scores both legs with weighted joints and penalizes the
// difference between them.
func LegQuality(left, right model.LegData, t norms.Table) model.LegQualityResult {
	r := model.LegQualityResult{
		Left:  legSide(left, t),
		Right: legSide(right, t),
	}
	r.LeftScore = weightedLeg(r.Left, t.LegWeights)
	r.RightScore = weightedLeg(r.Right, t.LegWeights)
	r.AsymmetryIndex = normalize.AsymmetryIndex(r.LeftScore, r.RightScore)
	r.Symmetry = 100 - r.AsymmetryIndex
	r.AsymmetryPenalty = normalize.AsymmetryPenalty(r.AsymmetryIndex, t.LegAsymmetryMaxPenalty)
	r.Index = math.Max(0, normalize.Mean(r.LeftScore, r.RightScore)-r.AsymmetryPenalty)
	return r
}

// TrunkStability blends trunk angle, trunk steadiness and head position.
func TrunkStability(trunk model.TrunkData, head model.HeadData, t norms.Table) model.TrunkStabilityResult {
	r := model.TrunkStabilityResult{
		AngleScore: jointScore(trunk.TrunkAngle, t.TrunkAngle),
		TrunkCV:    metricCV(trunk.TrunkAngle),
		HeadScore:  jointScore(head.HeadAngle, t.HeadAngle),
	}
	r.ConsistencyScore = normalize.Gaussian(r.TrunkCV, trunkTargetCV, trunkCVSigma)
	r.Score = r.AngleScore*trunkAngleWeight +
		r.ConsistencyScore*trunkConsistencyWeight +
		r.HeadScore*headWeight
	return r
}

// Symmetry compares raw left/right joint means.
func Symmetry(in model.RunBiomechanicsInput, t norms.Table) model.SymmetryResult {
	w := t.LegWeights
	var r model.SymmetryResult
	r.ArmAsymmetry = normalize.Mean(
		normalize.AsymmetryIndex(in.LeftArm.ArmSwing.Mean, in.RightArm.ArmSwing.Mean),
		normalize.AsymmetryIndex(in.LeftArm.ElbowAngle.Mean, in.RightArm.ElbowAngle.Mean),
	)
	r.KneeAsymmetry = normalize.AsymmetryIndex(in.LeftLeg.KneeAngle.Mean, in.RightLeg.KneeAngle.Mean)
	r.LegAsymmetry = r.KneeAsymmetry*w.Knee +
		normalize.AsymmetryIndex(in.LeftLeg.AnkleAngle.Mean, in.RightLeg.AnkleAngle.Mean)*w.Ankle +
		normalize.AsymmetryIndex(in.LeftLeg.HipAngle.Mean, in.RightLeg.HipAngle.Mean)*w.Hip +
		normalize.AsymmetryIndex(in.LeftLeg.ShankAngle.Mean, in.RightLeg.ShankAngle.Mean)*w.Shank
	r.ArmSymmetry = 100 - r.ArmAsymmetry
	r.LegSymmetry = 100 - r.LegAsymmetry
	r.Score = r.ArmSymmetry*armSymmetryWeight + r.LegSymmetry*legSymmetryWeight
	return r
}

// Efficiency estimates movement economy from variability, adjusted for body
// mass and height when they are known.
func Efficiency(in model.RunBiomechanicsInput) model.EfficiencyResult {
	hipCV := normalize.Mean(metricCV(in.LeftLeg.HipAngle), metricCV(in.RightLeg.HipAngle))
	armCV := normalize.Mean(metricCV(in.LeftArm.ArmSwing), metricCV(in.RightArm.ArmSwing))
	kneeCV := normalize.Mean(metricCV(in.LeftLeg.KneeAngle), metricCV(in.RightLeg.KneeAngle))

	r := model.EfficiencyResult{
		VerticalEfficiency: 100 - math.Abs(hipCV-hipTargetCV)*verticalSlope,
		ArmEfficiency:      100 - math.Max(0, armCV-armComfortCV)*armSlope,
		KneeEfficiency:     100 - math.Abs(kneeCV-kneeTargetCV)*kneeSlope,
	}
	economy := r.VerticalEfficiency*verticalWeight +
		r.ArmEfficiency*armEconomyWeight +
		r.KneeEfficiency*kneeEconomyWeight

	excess := math.Max(0, hipCV-hipWasteCV) + math.Max(0, armCV-armWasteCV) + math.Max(0, kneeCV-kneeWasteCV)
	r.EnergyWastePenalty = math.Min(maxEnergyWaste, excess*wasteMultiplier)

	if in.HasBodyMetrics() {
		bmi := normalize.BMI(*in.WeightKg, *in.HeightCm)
		adjusted := normalize.Clamp(economy+norms.BMIAdjustment(bmi), 0, 100)
		r.BMIAdjustment = adjusted - economy
		economy = adjusted
	}
	if in.HeightCm != nil {
		vertical := normalize.Clamp(r.VerticalEfficiency+norms.HeightAdjustment(*in.HeightCm), 0, 100)
		r.HeightAdjustment = (vertical - r.VerticalEfficiency) * heightEconomyWeight
		economy += r.HeightAdjustment
	}
	r.MovementEconomy = economy
	r.Score = normalize.Clamp(economy-r.EnergyWastePenalty, 0, 100)
	return r
}

// Consistency maps the mean CV of all fourteen metrics onto a score.
// Very low variability reads as rigidity and is mildly penalized.
func Consistency(in model.RunBiomechanicsInput) model.ConsistencyResult {
	cv := normalize.Mean(
		metricCV(in.LeftArm.ArmSwing),
		metricCV(in.LeftArm.ElbowAngle),
		metricCV(in.RightArm.ArmSwing),
		metricCV(in.RightArm.ElbowAngle),
		metricCV(in.LeftLeg.KneeAngle),
		metricCV(in.LeftLeg.AnkleAngle),
		metricCV(in.LeftLeg.HipAngle),
		metricCV(in.LeftLeg.ShankAngle),
		metricCV(in.RightLeg.KneeAngle),
		metricCV(in.RightLeg.AnkleAngle),
		metricCV(in.RightLeg.HipAngle),
		metricCV(in.RightLeg.ShankAngle),
		metricCV(in.Trunk.TrunkAngle),
		metricCV(in.Head.HeadAngle),
	)

	r := model.ConsistencyResult{
		OverallCV:          cv,
		VariabilityPenalty: math.Max(0, (cv-variableCVBound)*2),
	}
	switch {
	case cv < rigidCVBound:
		r.Score = 70 + cv*4
	case cv <= variableCVBound:
		r.Score = 100 - (cv-rigidCVBound)*2
	default:
		r.Score = math.Max(0, 86-(cv-variableCVBound)*4)
	}
	return r
}

func jointScore(m model.BiomechanicsMetric, n norms.JointNorm) float64 {
	return normalize.Gaussian(m.Mean, n.Optimal, n.Sigma)
}

func metricCV(m model.BiomechanicsMetric) float64 {
	return normalize.CV(m.Std, m.Mean)
}

func legSide(leg model.LegData, t norms.Table) model.LegSideScores {
	return model.LegSideScores{
		Knee:  jointScore(leg.KneeAngle, t.KneeAngle),
		Ankle: jointScore(leg.AnkleAngle, t.AnkleAngle),
		Hip:   jointScore(leg.HipAngle, t.HipAngle),
		Shank: jointScore(leg.ShankAngle, t.ShankAngle),
	}
}

func weightedLeg(s model.LegSideScores, w norms.LegWeights) float64 {
	return s.Knee*w.Knee + s.Ankle*w.Ankle + s.Hip*w.Hip + s.Shank*w.Shank
}
