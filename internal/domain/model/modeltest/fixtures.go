// Package modeltest builds run inputs for tests and load generation.
package modeltest

import (
	"math/rand"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/norms"
)

const nominalCount = 120

// Metric returns a metric with the given mean and std.
func Metric(mean, std float64) model.BiomechanicsMetric {
	return model.BiomechanicsMetric{
		Min:   mean - 2*std,
		Max:   mean + 2*std,
		Mean:  mean,
		Std:   std,
		Count: nominalCount,
	}
}

// Nominal returns a symmetric input with every joint at its optimal angle
// and low variability. It triggers no error rule.
func Nominal() model.RunBiomechanicsInput {
	t := norms.Default()
	arm := model.ArmData{
		ArmSwing:   Metric(t.ArmSwing.Optimal, 3),
		ElbowAngle: Metric(t.ElbowAngle.Optimal, 3),
	}
	leg := model.LegData{
		KneeAngle:  Metric(t.KneeAngle.Optimal, 5),
		AnkleAngle: Metric(t.AnkleAngle.Optimal, 3),
		HipAngle:   Metric(t.HipAngle.Optimal, 2),
		ShankAngle: Metric(t.ShankAngle.Optimal, 3),
	}
	return model.RunBiomechanicsInput{
		LeftArm:  arm,
		RightArm: arm,
		LeftLeg:  leg,
		RightLeg: leg,
		Trunk:    model.TrunkData{TrunkAngle: Metric(t.TrunkAngle.Optimal, 1)},
		Head:     model.HeadData{HeadAngle: Metric(t.HeadAngle.Optimal, 1)},
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Random returns a valid input with means drawn from each joint's plausible
// range and arbitrary variability.
func Random(rng *rand.Rand) model.RunBiomechanicsInput {
	t := norms.Default()
	metric := func(n norms.JointNorm) model.BiomechanicsMetric {
		mean := n.Min + rng.Float64()*(n.Max-n.Min)
		std := rng.Float64() * 0.4 * (mean + 1)
		return model.BiomechanicsMetric{
			Min:   mean - std,
			Max:   mean + std,
			Mean:  mean,
			Std:   std,
			Count: 1 + rng.Intn(500),
		}
	}
	arm := func() model.ArmData {
		return model.ArmData{ArmSwing: metric(t.ArmSwing), ElbowAngle: metric(t.ElbowAngle)}
	}
	leg := func() model.LegData {
		return model.LegData{
			KneeAngle:  metric(t.KneeAngle),
			AnkleAngle: metric(t.AnkleAngle),
			HipAngle:   metric(t.HipAngle),
			ShankAngle: metric(t.ShankAngle),
		}
	}
	in := model.RunBiomechanicsInput{
		LeftArm:  arm(),
		RightArm: arm(),
		LeftLeg:  leg(),
		RightLeg: leg(),
		Trunk:    model.TrunkData{TrunkAngle: metric(t.TrunkAngle)},
		Head:     model.HeadData{HeadAngle: metric(t.HeadAngle)},
	}
	if rng.Intn(2) == 0 {
		in.HeightCm = Float(140 + rng.Float64()*70)
		if rng.Intn(2) == 0 {
			in.WeightKg = Float(40 + rng.Float64()*90)
		}
	}
	return in
}
